package database

import (
	"context"

	"docqa-service/models"

	"github.com/google/uuid"
)

// UserStore tracks per-user request counters against a fixed ceiling.
type UserStore interface {
	// CreateUser stores a new user with counter 1 and returns it.
	CreateUser(ctx context.Context, name string) (*models.User, error)
	// ReserveQuota increments the counter if it is below the ceiling, as one atomic step.
	// Returns models.ErrUserNotFound or models.ErrLimitExceeded otherwise.
	ReserveQuota(ctx context.Context, userID string) (*models.User, error)
	// Refund gives back one unit taken by ReserveQuota. Counters never drop below 1.
	Refund(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	Ping(ctx context.Context) error
}

// QueryStore is the append-only question/answer history.
type QueryStore interface {
	RecordQuery(ctx context.Context, record *models.QueryRecord) error
	// ListRecent returns at most limit records for userID, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]models.QueryRecord, error)
}

// DefaultHistoryLimit applies when ListRecent is called with a non-positive limit.
const DefaultHistoryLimit = 5

// NewUserID returns a time-ordered UUIDv7.
func NewUserID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
