package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QueryRecord is one answered question. Records are append-only.
type QueryRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"user_id" json:"-"`
	Question  string             `bson:"question" json:"question"`
	Answer    string             `bson:"answer" json:"answer"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type AskRequest struct {
	UserID   string `json:"user_id"`
	Question string `json:"question" binding:"max=4000"`
}

type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type HistoryRequest struct {
	UserID string `json:"user_id"`
}

type HistoryResponse struct {
	Queries []QueryRecord `json:"queries"`
}
