package domain

import "time"

// MaxChallengeAttempts is the number of failed password submissions allowed
// before a challenge locks.
const MaxChallengeAttempts = 3

// Challenge is the ephemeral password prompt raised when a guarded page
// requires a higher tier than the session currently holds. It lives until
// the upgrade succeeds or the caller cancels it.
type Challenge struct {
	PageID       string     `json:"page_id"`
	TargetTier   AccessTier `json:"target_tier"`
	AttemptCount int        `json:"attempt_count"`
	Locked       bool       `json:"locked"`
	LockedUntil  time.Time  `json:"locked_until,omitempty"`
}

// LockedAt reports whether the challenge is still inside its cool-down
// window at the given instant.
func (ch *Challenge) LockedAt(now time.Time) bool {
	return ch.Locked && now.Before(ch.LockedUntil)
}
