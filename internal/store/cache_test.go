package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restobrowse/internal/types"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(t *testing.T) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	c, err := Open(":memory:", WithClock(clock.now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, clock
}

func TestCache_ListRoundTrip(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	_, _, err := c.List(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	rs := []types.Restaurant{{ID: "a", Name: "A", City: "Medan"}, {ID: "b", Name: "B", City: "Bali"}}
	require.NoError(t, c.PutList(ctx, rs))

	got, at, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, rs, got)
	assert.True(t, at.Equal(clock.t))

	clock.t = clock.t.Add(time.Hour)
	require.NoError(t, c.PutList(ctx, rs[:1]))
	got, at, err = c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1, "put overwrites")
	assert.True(t, at.Equal(clock.t))
}

func TestCache_Restaurant(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	r := types.Restaurant{
		ID:              "rqdv5juczeskfw1e867",
		Name:            "Melting Pot",
		Menus:           &types.Menus{Foods: []types.MenuItem{{Name: "Paket rosemary"}}},
		CustomerReviews: []types.Review{{Name: "Ahmad", Review: "ok", Date: "13 November 2019"}},
	}
	require.NoError(t, c.PutRestaurant(ctx, r))

	got, _, err := c.Restaurant(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	_, _, err = c.Restaurant(ctx, "other")
	assert.ErrorIs(t, err, ErrMiss)

	assert.Error(t, c.PutRestaurant(ctx, types.Restaurant{Name: "no id"}))
}

func TestCache_StatsAndPurge(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	s, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, s.HasList)
	assert.Zero(t, s.Restaurants)

	old := clock.t
	require.NoError(t, c.PutRestaurant(ctx, types.Restaurant{ID: "a"}))
	clock.t = clock.t.Add(48 * time.Hour)
	require.NoError(t, c.PutRestaurant(ctx, types.Restaurant{ID: "b"}))
	require.NoError(t, c.PutList(ctx, []types.Restaurant{{ID: "a"}, {ID: "b"}}))

	s, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, s.HasList)
	assert.Equal(t, 2, s.Restaurants)
	assert.True(t, s.Oldest.Equal(old))
	assert.True(t, s.Newest.Equal(clock.t))

	n, err := c.Purge(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, _, err = c.Restaurant(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)
	_, _, err = c.Restaurant(ctx, "b")
	assert.NoError(t, err)

	n, err = c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	s, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, s.HasList)
}

func TestCache_PersistsOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	ctx := context.Background()

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.PutList(ctx, []types.Restaurant{{ID: "a"}}))
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()
	rs, _, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rs, 1)
	assert.Equal(t, path, c.Path())
}
