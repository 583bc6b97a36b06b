package database

import (
	"context"
	"fmt"

	"docqa-service/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// IntegrityReport summarises the stored quota and history data.
type IntegrityReport struct {
	Users           int64
	Queries         int64
	CountersOutside int64 // counters below 1 or above the ceiling
	OrphanQueries   int64 // history records whose user no longer exists
}

// OK reports whether no invariant is violated.
func (r *IntegrityReport) OK() bool {
	return r.CountersOutside == 0 && r.OrphanQueries == 0
}

// VerifyIntegrity checks that every counter lies in [1, limit] and that every
// history record references an existing user.
func VerifyIntegrity(ctx context.Context, db *mongo.Database, limit int) (*IntegrityReport, error) {
	users := db.Collection(config.UsersCollection)
	queries := db.Collection(config.QueriesCollection)
	report := &IntegrityReport{}

	var err error
	if report.Users, err = users.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if report.Queries, err = queries.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("failed to count queries: %w", err)
	}

	report.CountersOutside, err = users.CountDocuments(ctx, bson.M{
		"$or": bson.A{
			bson.M{"counter": bson.M{"$lt": 1}},
			bson.M{"counter": bson.M{"$gt": limit}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check counters: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         config.UsersCollection,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$match", Value: bson.M{"owner": bson.M{"$size": 0}}}},
		{{Key: "$count", Value: "orphans"}},
	}
	cursor, err := queries.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to check query owners: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Orphans int64 `bson:"orphans"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to read query owners: %w", err)
	}
	if len(result) > 0 {
		report.OrphanQueries = result[0].Orphans
	}

	return report, nil
}
