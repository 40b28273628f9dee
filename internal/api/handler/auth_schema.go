package handler

import "github.com/fintrack/fintrack/internal/core/domain"

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type currentUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	// Exp is the token expiry as a Unix timestamp, echoed so the client can
	// re-check freshness without decoding the token again.
	Exp int64 `json:"exp"`
}
