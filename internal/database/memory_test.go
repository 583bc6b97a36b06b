package database

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa-service/models"
)

func TestMemoryUserStore_CreateUser(t *testing.T) {
	store := NewMemoryUserStore(5)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		user, err := store.CreateUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, user.Counter)
		assert.Equal(t, "alice", user.Name)
		assert.False(t, seen[user.ID], "duplicate id %s", user.ID)
		seen[user.ID] = true
	}
}

func TestMemoryUserStore_ReserveQuota_Ceiling(t *testing.T) {
	store := NewMemoryUserStore(5)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "bob")
	require.NoError(t, err)

	for want := 2; want <= 5; want++ {
		got, err := store.ReserveQuota(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.Counter)
	}

	_, err = store.ReserveQuota(ctx, user.ID)
	assert.ErrorIs(t, err, models.ErrLimitExceeded)

	stored, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Counter, "rejected call must not increment")
}

func TestMemoryUserStore_ReserveQuota_UnknownUser(t *testing.T) {
	store := NewMemoryUserStore(5)

	_, err := store.ReserveQuota(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	_, err = store.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestMemoryUserStore_ReserveQuota_Concurrent(t *testing.T) {
	store := NewMemoryUserStore(5)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "carol")
	require.NoError(t, err)

	var accepted, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.ReserveQuota(ctx, user.ID); err == nil {
				accepted.Add(1)
			} else if assert.ErrorIs(t, err, models.ErrLimitExceeded) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(4), accepted.Load())
	assert.Equal(t, int32(60), rejected.Load())

	stored, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Counter)
}

func TestMemoryUserStore_Refund(t *testing.T) {
	store := NewMemoryUserStore(5)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "dave")
	require.NoError(t, err)

	// never below 1
	require.NoError(t, store.Refund(ctx, user.ID))
	stored, _ := store.GetUser(ctx, user.ID)
	assert.Equal(t, 1, stored.Counter)

	_, err = store.ReserveQuota(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, store.Refund(ctx, user.ID))
	stored, _ = store.GetUser(ctx, user.ID)
	assert.Equal(t, 1, stored.Counter)

	assert.NoError(t, store.Refund(ctx, "missing"))
}

func TestMemoryQueryStore_ListRecent(t *testing.T) {
	store := NewMemoryQueryStore()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	// inserted out of order on purpose
	offsets := []int{3, 0, 6, 1, 5, 2, 4}
	for _, off := range offsets {
		require.NoError(t, store.RecordQuery(ctx, &models.QueryRecord{
			UserID:    "u1",
			Question:  "q",
			Answer:    "a",
			Timestamp: base.Add(time.Duration(off) * time.Minute),
		}))
	}
	require.NoError(t, store.RecordQuery(ctx, &models.QueryRecord{UserID: "u2", Timestamp: base}))

	records, err := store.ListRecent(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, records, 5)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].Timestamp.After(records[i-1].Timestamp), "records must be newest first")
	}
	assert.Equal(t, base.Add(6*time.Minute), records[0].Timestamp)
	for _, r := range records {
		assert.Equal(t, "u1", r.UserID)
	}

	other, err := store.ListRecent(ctx, "u2", 5)
	require.NoError(t, err)
	assert.Len(t, other, 1)

	none, err := store.ListRecent(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryQueryStore_EqualTimestampsNewestInsertFirst(t *testing.T) {
	store := NewMemoryQueryStore()
	ctx := context.Background()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordQuery(ctx, &models.QueryRecord{UserID: "u", Question: "first", Timestamp: ts}))
	require.NoError(t, store.RecordQuery(ctx, &models.QueryRecord{UserID: "u", Question: "second", Timestamp: ts}))

	records, err := store.ListRecent(ctx, "u", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].Question)
}
