package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docqa-service/internal/config"
	"docqa-service/internal/telemetry"
	"docqa-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserStore struct {
	col     *mongo.Collection
	limit   int
	metrics *telemetry.Metrics
}

func NewMongoUserStore(db *mongo.Database, limit int, metrics *telemetry.Metrics) *MongoUserStore {
	return &MongoUserStore{
		col:     db.Collection(config.UsersCollection),
		limit:   limit,
		metrics: metrics,
	}
}

func (s *MongoUserStore) CreateUser(ctx context.Context, name string) (*models.User, error) {
	now := time.Now().UTC()
	user := &models.User{
		ID:        NewUserID(),
		Name:      name,
		Counter:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.col.InsertOne(ctx, user)
	s.metrics.RecordDatabaseOperation("insert", config.UsersCollection, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ReserveQuota increments the counter with a single conditional update, so two concurrent
// requests can never both pass the ceiling check.
func (s *MongoUserStore) ReserveQuota(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{
			"_id":     userID,
			"counter": bson.M{"$lt": s.limit},
		},
		bson.M{
			"$inc": bson.M{"counter": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	s.metrics.RecordDatabaseOperation("find_one_and_update", config.UsersCollection, err == nil || errors.Is(err, mongo.ErrNoDocuments))

	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to reserve quota: %w", err)
	}

	// No match: either the user is unknown or already at the ceiling
	count, err := s.col.CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	s.metrics.RecordDatabaseOperation("count", config.UsersCollection, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if count == 0 {
		return nil, models.ErrUserNotFound
	}
	return nil, models.ErrLimitExceeded
}

func (s *MongoUserStore) Refund(ctx context.Context, userID string) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{
			"_id":     userID,
			"counter": bson.M{"$gt": 1},
		},
		bson.M{
			"$inc": bson.M{"counter": -1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	s.metrics.RecordDatabaseOperation("update", config.UsersCollection, err == nil)
	if err != nil {
		return fmt.Errorf("failed to refund quota: %w", err)
	}
	return nil
}

func (s *MongoUserStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	s.metrics.RecordDatabaseOperation("find", config.UsersCollection, err == nil || errors.Is(err, mongo.ErrNoDocuments))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) Ping(ctx context.Context) error {
	return s.col.Database().Client().Ping(ctx, nil)
}
