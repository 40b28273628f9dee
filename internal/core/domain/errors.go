package domain

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password does not meet minimum length")
	ErrMissingToken       = errors.New("missing bearer token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)
