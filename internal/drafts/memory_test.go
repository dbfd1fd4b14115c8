package drafts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(ttl time.Duration) (*MemoryStore, *time.Time) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	s := NewMemoryStore(ttl)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestMemoryStoreRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	s, now := newMemoryStore(time.Hour)
	d := sampleDraft(t)

	require.NoError(t, s.Put(ctx, d))
	got, err := s.Get(ctx, "co-1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	_, err = s.Get(ctx, "co-2", d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	*now = now.Add(61 * time.Minute)
	_, err = s.Get(ctx, "co-1", d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestMemoryStoreSubmitGuard(t *testing.T) {
	ctx := context.Background()
	s, now := newMemoryStore(time.Hour)

	ok, _ := s.AcquireSubmit(ctx, "co-1", "d-1")
	assert.True(t, ok)
	ok, _ = s.AcquireSubmit(ctx, "co-1", "d-1")
	assert.False(t, ok)

	ok, _ = s.AcquireSubmit(ctx, "co-1", "d-2")
	assert.True(t, ok, "guards are per draft")

	*now = now.Add(submitGuardTTL + time.Second)
	ok, _ = s.AcquireSubmit(ctx, "co-1", "d-1")
	assert.True(t, ok)

	require.NoError(t, s.ReleaseSubmit(ctx, "co-1", "d-1"))
	ok, _ = s.AcquireSubmit(ctx, "co-1", "d-1")
	assert.True(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore(time.Hour)
	d := sampleDraft(t)
	require.NoError(t, s.Put(ctx, d))
	_, _ = s.AcquireSubmit(ctx, "co-1", d.ID)

	require.NoError(t, s.Delete(ctx, "co-1", d.ID))
	_, err := s.Get(ctx, "co-1", d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	ok, _ := s.AcquireSubmit(ctx, "co-1", d.ID)
	assert.True(t, ok)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
