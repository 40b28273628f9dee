package ports

import (
	"context"

	"github.com/fintrack/fintrack/internal/core/domain"
)

// AuthRepository defines the interface for credential persistence. The store
// owns identifier uniqueness: Create must fail with domain.ErrUserExists when
// the email is already taken, atomically with the insert.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
