package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"docqa-service/models"
)

// MemoryUserStore keeps users in process memory. It backs STORE_DRIVER=memory and tests.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	limit int
	now   func() time.Time
}

func NewMemoryUserStore(limit int) *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]*models.User),
		limit: limit,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryUserStore) CreateUser(_ context.Context, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	user := &models.User{
		ID:        NewUserID(),
		Name:      name,
		Counter:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = user

	out := *user
	return &out, nil
}

func (s *MemoryUserStore) ReserveQuota(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	if user.Counter >= s.limit {
		return nil, models.ErrLimitExceeded
	}
	user.Counter++
	user.UpdatedAt = s.now()

	out := *user
	return &out, nil
}

func (s *MemoryUserStore) Refund(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[userID]; ok && user.Counter > 1 {
		user.Counter--
		user.UpdatedAt = s.now()
	}
	return nil
}

func (s *MemoryUserStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (s *MemoryUserStore) Ping(context.Context) error {
	return nil
}

// MemoryQueryStore keeps history in process memory.
type MemoryQueryStore struct {
	mu      sync.RWMutex
	records map[string][]models.QueryRecord
}

func NewMemoryQueryStore() *MemoryQueryStore {
	return &MemoryQueryStore{records: make(map[string][]models.QueryRecord)}
}

func (s *MemoryQueryStore) RecordQuery(_ context.Context, record *models.QueryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.UserID] = append(s.records[record.UserID], *record)
	return nil
}

func (s *MemoryQueryStore) ListRecent(_ context.Context, userID string, limit int) ([]models.QueryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	s.mu.RLock()
	stored := s.records[userID]
	// newest insertion first, so equal timestamps keep insertion recency after the stable sort
	out := make([]models.QueryRecord, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
