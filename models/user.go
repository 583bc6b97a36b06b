package models

import (
	"time"
)

const (
	UserTypeNew = "new"
	UserTypeOld = "old"
)

// User is the quota holder. Counter starts at 1 on creation and never exceeds the ceiling.
type User struct {
	ID        string    `bson:"_id" json:"user_id"`
	Name      string    `bson:"user_name" json:"user_name"`
	Counter   int       `bson:"counter" json:"counter"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type RegisterRequest struct {
	UserType string `json:"user_type"`
	UserName string `json:"user_name,omitempty" binding:"omitempty,max=100"`
	UserID   string `json:"user_id,omitempty"`
}

type RegisterResponse struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}
