package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	stored := *user
	stored.ID = "u-" + user.Email
	r.users[user.Email] = &stored
	return &stored, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), "Rina", "rina@clinic.test", "s3cret", domain.RoleStaff)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("created user has no ID")
	}
	if user.PasswordHash == "s3cret" {
		t.Fatalf("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")) != nil {
		t.Fatalf("stored hash does not verify")
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "Rina", "rina@clinic.test", "s3cret", "superhero"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Rina", "rina@clinic.test", "s3cret", domain.RoleStaff); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "Rina Again", "rina@clinic.test", "other", domain.RoleStaff); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("got %v, want ErrUserExists", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Rina", "rina@clinic.test", "s3cret", domain.RoleAdmin); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(ctx, "rina@clinic.test", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Email != "rina@clinic.test" {
		t.Fatalf("user = %+v", user)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != user.ID || claims["role"] != domain.RoleAdmin {
		t.Fatalf("claims = %v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Rina", "rina@clinic.test", "s3cret", domain.RoleStaff); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "rina@clinic.test", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@clinic.test", "s3cret"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}
