package domain

import "time"

// User models a registered account. The email is the unique, case-normalized
// identifier; only the bcrypt hash of the password is ever stored.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
