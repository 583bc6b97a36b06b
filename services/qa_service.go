package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docqa-service/internal/database"
	"docqa-service/internal/logger"
	"docqa-service/internal/telemetry"
	"docqa-service/models"
)

const (
	RegisterStatusCreated = "created"
	RegisterStatusUpdated = "updated"
)

// Answerer is the part of QAPipeline the service depends on.
type Answerer interface {
	Answer(ctx context.Context, question string) (*models.Answer, error)
}

// QAService runs the request flow: quota check, answer, history.
// With nil stores it answers without quota or history.
type QAService struct {
	pipeline        Answerer
	users           database.UserStore
	queries         database.QueryStore
	historyLimit    int
	refundOnFailure bool
	metrics         *telemetry.Metrics
	now             func() time.Time
}

type QAServiceOptions struct {
	Users           database.UserStore
	Queries         database.QueryStore
	HistoryLimit    int
	RefundOnFailure bool
	Metrics         *telemetry.Metrics
}

func NewQAService(pipeline Answerer, opts QAServiceOptions) *QAService {
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = database.DefaultHistoryLimit
	}
	return &QAService{
		pipeline:        pipeline,
		users:           opts.Users,
		queries:         opts.Queries,
		historyLimit:    limit,
		refundOnFailure: opts.RefundOnFailure,
		metrics:         opts.Metrics,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// QuotaEnabled reports whether user and history stores are configured.
func (s *QAService) QuotaEnabled() bool {
	return s.users != nil && s.queries != nil
}

// Register creates a user ("new") or spends one unit of an existing user's quota ("old").
func (s *QAService) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	switch req.UserType {
	case models.UserTypeNew:
		user, err := s.users.CreateUser(ctx, strings.TrimSpace(req.UserName))
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		logger.Info("User registered", "user_id", user.ID)
		return &models.RegisterResponse{Status: RegisterStatusCreated, UserID: user.ID}, nil

	case models.UserTypeOld:
		userID := strings.TrimSpace(req.UserID)
		if userID == "" {
			return nil, models.ErrMissingUserID
		}
		user, err := s.users.ReserveQuota(ctx, userID)
		if err != nil {
			s.recordRejection("register", err)
			return nil, err
		}
		return &models.RegisterResponse{Status: RegisterStatusUpdated, UserID: user.ID}, nil

	default:
		return nil, models.ErrInvalidUserType
	}
}

// Ask answers a question. With quota enabled the user's counter is reserved first;
// a failed answer gives the unit back when refunds are on. A history write failure
// after a successful answer is logged and does not fail the call.
func (s *QAService) Ask(ctx context.Context, userID, question string) (*models.Answer, error) {
	question = strings.TrimSpace(question)

	if !s.QuotaEnabled() {
		if question == "" {
			return nil, models.ErrEmptyQuestion
		}
		return s.pipeline.Answer(ctx, question)
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, models.ErrMissingUserID
	}
	if question == "" {
		return nil, models.ErrEmptyQuestion
	}

	if _, err := s.users.ReserveQuota(ctx, userID); err != nil {
		s.recordRejection("ask", err)
		return nil, err
	}

	answer, err := s.pipeline.Answer(ctx, question)
	if err != nil {
		if s.refundOnFailure {
			if rerr := s.users.Refund(context.WithoutCancel(ctx), userID); rerr != nil {
				logger.Error("Failed to refund quota", "user_id", userID, "error", rerr)
			}
		}
		return nil, err
	}

	record := &models.QueryRecord{
		UserID:    userID,
		Question:  question,
		Answer:    answer.Text,
		Timestamp: s.now(),
	}
	if err := s.queries.RecordQuery(context.WithoutCancel(ctx), record); err != nil {
		logger.Error("Failed to record query", "user_id", userID, "error", err)
	}

	return answer, nil
}

// History returns the user's most recent answered questions, newest first.
func (s *QAService) History(ctx context.Context, userID string) ([]models.QueryRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, models.ErrMissingUserID
	}

	records, err := s.queries.ListRecent(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	if records == nil {
		records = []models.QueryRecord{}
	}
	return records, nil
}

// Ping checks the user store, used by the health monitor.
func (s *QAService) Ping(ctx context.Context) error {
	if s.users == nil {
		return nil
	}
	return s.users.Ping(ctx)
}

func (s *QAService) recordRejection(op string, err error) {
	if errors.Is(err, models.ErrLimitExceeded) {
		s.metrics.RecordQuotaRejection(op)
	}
}
