package ports

import (
	"context"

	"github.com/fintrack/fintrack/internal/core/domain"
)

// ActivityRepository persists entries of the auth activity trail.
type ActivityRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
}
