package database

import (
	"context"
	"fmt"

	"docqa-service/internal/config"
	"docqa-service/internal/telemetry"
	"docqa-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoQueryStore struct {
	col     *mongo.Collection
	metrics *telemetry.Metrics
}

func NewMongoQueryStore(db *mongo.Database, metrics *telemetry.Metrics) *MongoQueryStore {
	return &MongoQueryStore{
		col:     db.Collection(config.QueriesCollection),
		metrics: metrics,
	}
}

func (s *MongoQueryStore) RecordQuery(ctx context.Context, record *models.QueryRecord) error {
	_, err := s.col.InsertOne(ctx, record)
	s.metrics.RecordDatabaseOperation("insert", config.QueriesCollection, err == nil)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

func (s *MongoQueryStore) ListRecent(ctx context.Context, userID string, limit int) ([]models.QueryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	cursor, err := s.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(int64(limit)),
	)
	s.metrics.RecordDatabaseOperation("find", config.QueriesCollection, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.QueryRecord, 0, limit)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode queries: %w", err)
	}
	return records, nil
}
