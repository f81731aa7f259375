package domain

import "errors"

var (
	ErrInvalidTier        = errors.New("invalid access tier")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNoChallenge        = errors.New("no active challenge")
	ErrChallengeLocked    = errors.New("challenge locked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)
