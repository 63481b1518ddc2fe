package kvstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore()
	s.now = clock.Now
	return s, clock
}

func TestMemoryStoreIncr(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	count, ttl, err := s.Incr(ctx, "rl:ip:1", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, time.Minute, ttl)

	clock.Advance(20 * time.Second)
	count, ttl, err = s.Incr(ctx, "rl:ip:1", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Equal(t, 40*time.Second, ttl, "ttl is fixed at creation")

	clock.Advance(41 * time.Second)
	count, _, err = s.Incr(ctx, "rl:ip:1", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "window restarts after expiry")
}

func TestMemoryStoreSetGetExpiry(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	require.NoError(t, s.Set(ctx, "csrf:abc", "session-1", 10*time.Minute))

	v, err := s.Get(ctx, "csrf:abc")
	require.NoError(t, err)
	assert.Equal(t, "session-1", v)

	clock.Advance(10 * time.Minute)
	_, err = s.Get(ctx, "csrf:abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, s.Len(), "expired key evicted on access")
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSweepsExpiredKeys(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	for i := 0; i < sweepEvery-1; i++ {
		require.NoError(t, s.Set(ctx, fmt.Sprintf("old:%d", i), "x", time.Second))
	}
	clock.Advance(2 * time.Second)
	require.NoError(t, s.Set(ctx, "fresh", "x", time.Minute))

	assert.Equal(t, 1, s.Len())
}

func TestNewFallsBackToMemory(t *testing.T) {
	_, ok := New(nil).(*MemoryStore)
	assert.True(t, ok)
}
