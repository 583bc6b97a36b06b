package utils

import (
	"context"
	"time"
)

const (
	// DefaultTimeout is for store reads and writes.
	DefaultTimeout = 10 * time.Second

	// AnswerTimeout covers query embedding plus generation.
	AnswerTimeout = 60 * time.Second

	// ShortTimeout is for pings and cache lookups.
	ShortTimeout = 2 * time.Second

	// IngestionTimeout bounds the startup embedding of the whole document.
	IngestionTimeout = 10 * time.Minute
)

// WithTimeout creates a context with default timeout
func WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultTimeout)
}

// WithAnswerTimeout creates a context for a full question-answer round trip
func WithAnswerTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, AnswerTimeout)
}

// WithShortTimeout creates a context with short timeout for quick operations
func WithShortTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, ShortTimeout)
}

// WithCustomTimeout creates a context with custom timeout duration
func WithCustomTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, duration)
}
