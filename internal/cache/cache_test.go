package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestAside_FetchesOnceThenServesFromCache(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			calls++
			*dest = cachedThing{ID: 7, Name: "golang"}
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, ProfileKey(7), &first, ProfileTTL, fetch(&first)))

	var second cachedThing
	require.NoError(t, Aside(ctx, ProfileKey(7), &second, ProfileTTL, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("profile:user:7"))
	assert.Equal(t, ProfileTTL, mr.TTL("profile:user:7"))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := withMiniredis(t)
	boom := errors.New("db down")

	var dest cachedThing
	err := Aside(context.Background(), CategoryListKey, &dest, CategoryListTTL, func() error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(CategoryListKey))
}

func TestAside_WithoutClientAlwaysFetches(t *testing.T) {
	SetClient(nil)

	calls := 0
	var dest cachedThing
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), "k", &dest, time.Minute, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestAside_CorruptEntryFallsBackToFetch(t *testing.T) {
	mr := withMiniredis(t)
	require.NoError(t, mr.Set(CategoryListKey, "{not json"))

	var dest cachedThing
	require.NoError(t, Aside(context.Background(), CategoryListKey, &dest, CategoryListTTL, func() error {
		dest = cachedThing{ID: 1, Name: "fresh"}
		return nil
	}))
	assert.Equal(t, "fresh", dest.Name)
}

func TestInvalidate(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()
	require.NoError(t, SetJSON(ctx, ProfileKey(3), cachedThing{ID: 3}, time.Minute))
	require.NoError(t, SetJSON(ctx, CategoryListKey, []cachedThing{{ID: 1}}, time.Minute))

	InvalidateProfile(ctx, 3)
	InvalidateCategories(ctx)

	assert.False(t, mr.Exists(ProfileKey(3)))
	assert.False(t, mr.Exists(CategoryListKey))
}
