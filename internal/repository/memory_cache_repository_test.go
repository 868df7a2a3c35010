package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/arthavgonda/timetable-gateway/pkg/errors"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	repo := NewMemoryCacheRepository()
	ctx := context.Background()

	value := map[string]int{"used_slots": 3}
	require.NoError(t, repo.Set(ctx, "room:R101", value, time.Minute))

	var got map[string]int
	require.NoError(t, repo.Get(ctx, "room:R101", &got))
	assert.Equal(t, value, got)
}

func TestMemoryCacheMissOnUnknownKey(t *testing.T) {
	repo := NewMemoryCacheRepository()

	var got string
	err := repo.Get(context.Background(), "missing", &got)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestMemoryCacheExpiresEntries(t *testing.T) {
	repo := NewMemoryCacheRepository()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "timetable:02-03-2026", "payload", time.Minute))

	repo.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	var got string
	err := repo.Get(ctx, "timetable:02-03-2026", &got)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	repo := NewMemoryCacheRepository()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "timetable:02-03-2026", "a", time.Minute))
	require.NoError(t, repo.Set(ctx, "timetable:09-03-2026", "b", time.Minute))
	require.NoError(t, repo.Set(ctx, "teacher_availability", "c", time.Minute))

	require.NoError(t, repo.DeleteByPattern(ctx, "timetable:*"))

	var got string
	assert.ErrorIs(t, repo.Get(ctx, "timetable:02-03-2026", &got), appErrors.ErrCacheMiss)
	assert.ErrorIs(t, repo.Get(ctx, "timetable:09-03-2026", &got), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Get(ctx, "teacher_availability", &got))
}

func TestMemoryCacheRejectsUnmarshalableValue(t *testing.T) {
	repo := NewMemoryCacheRepository()
	assert.Error(t, repo.Set(context.Background(), "bad", func() {}, time.Minute))
}
