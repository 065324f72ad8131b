package outputcache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0)
	s.now = func() time.Time { return now }

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "a", &Entry{Status: 200, Body: []byte("a")}, time.Minute, []string{TagCompanies}))
	require.NoError(t, s.Set(ctx, "b", &Entry{Status: 200, Body: []byte("b")}, 2*time.Minute, []string{TagCompanies}))
	require.NoError(t, s.Set(ctx, "c", &Entry{Status: 200, Body: []byte("c")}, time.Minute, nil))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", string(got.Body))

	now = now.Add(90 * time.Second)
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss, "expired entries are misses")
	_, err = s.Get(ctx, "b")
	assert.NoError(t, err)

	require.NoError(t, s.EvictTag(ctx, TagCompanies))
	_, err = s.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)
	// Untagged entries survive the eviction until they expire.
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_OverwriteRetags(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	require.NoError(t, s.Set(ctx, "k", &Entry{Body: []byte("old")}, time.Minute, []string{"x"}))
	require.NoError(t, s.Set(ctx, "k", &Entry{Body: []byte("new")}, time.Minute, []string{"y"}))

	require.NoError(t, s.EvictTag(ctx, "x"))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got.Body))

	require.NoError(t, s.EvictTag(ctx, "y"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_SweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0)
	s.now = func() time.Time { return now }

	for i := range 10000 {
		require.NoError(t, s.Set(ctx, strconv.Itoa(i), &Entry{Status: 200}, time.Minute, []string{TagCompanies}))
	}
	require.Equal(t, 10000, s.Len())

	now = now.Add(time.Hour)
	for i := range 10 {
		require.NoError(t, s.Set(ctx, "fresh-"+strconv.Itoa(i), &Entry{Status: 200}, time.Minute, nil))
	}
	assert.Equal(t, 10, s.Len())
}

func TestMemoryStore_CapsEntries(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)

	for i := range 10 {
		require.NoError(t, s.Set(ctx, strconv.Itoa(i), &Entry{Status: 200}, time.Hour, []string{TagCompanies}))
		assert.LessOrEqual(t, s.Len(), 3)
	}
	got, err := s.Get(ctx, "9")
	require.NoError(t, err, "the newest entry is kept")
	assert.Equal(t, 200, got.Status)

	require.NoError(t, s.EvictTag(ctx, TagCompanies))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_ExpiredGetKeepsFreshEntry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", &Entry{Body: []byte("old")}, time.Minute, nil))
	now = now.Add(2 * time.Minute)

	// The first clock read sees the old entry expired; a Set lands before
	// the write lock is taken.
	calls := 0
	s.now = func() time.Time {
		calls++
		if calls == 1 {
			s.items["k"] = memoryItem{entry: &Entry{Body: []byte("new")}, expires: now.Add(time.Minute)}
		}
		return now
	}
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	s.now = func() time.Time { return now }
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got.Body))
}
