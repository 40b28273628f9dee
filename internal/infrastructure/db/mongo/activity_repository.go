package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fintrack/fintrack/internal/core/domain"
	"github.com/fintrack/fintrack/internal/core/ports"
)

const activityCollection = "auth_activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	db *mongo.Database
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) ports.ActivityRepository {
	return &ActivityRepository{db: db}
}

type mongoActivity struct {
	Email     string `bson:"email"`
	Kind      string `bson:"kind"`
	Timestamp int64  `bson:"timestamp"`
}

// Insert appends one event to the auth_activity trail.
func (r *ActivityRepository) Insert(ctx context.Context, event *domain.ActivityEvent) error {
	doc := mongoActivity{
		Email:     event.Email,
		Kind:      string(event.Kind),
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.db.Collection(activityCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
