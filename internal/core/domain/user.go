package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User models an authenticated dashboard account. Account identity is
// deliberately independent of the session access tier: every session starts
// at TierDoctor no matter who logged in.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
