package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsops/liveperson-cli/internal/cache"
)

func newRedisStore(t *testing.T) (*cache.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := cache.NewRedisStore(client)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)
	key := cache.TokenKey("123", "bot")

	require.NoError(t, s.Save(ctx, key, token(time.Now().Add(time.Hour))))
	assert.True(t, mr.Exists(key))

	got, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "bearer-abc", got.AccessToken)
}

func TestRedisStore_KeyExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Save(ctx, "k", token(time.Now().Add(10*time.Minute))))
	ttl := mr.TTL("k")
	assert.True(t, ttl > 9*time.Minute && ttl <= 10*time.Minute, "ttl = %v", ttl)

	mr.FastForward(11 * time.Minute)
	_, err := s.Load(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestRedisStore_ExpiredTokenNotSaved(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Save(ctx, "k", token(time.Now().Add(-time.Second))))
	assert.False(t, mr.Exists("k"))
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Save(ctx, "k", token(time.Now().Add(time.Hour))))
	require.NoError(t, s.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedisStore_CorruptValueIsMiss(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, mr.Set("k", "not-json"))

	_, err := s.Load(context.Background(), "k")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	s := cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	defer s.Close()
	mr.Close()

	_, err = s.Load(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, cache.ErrMiss))
}

func TestNewRedisStoreFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := cache.NewRedisStoreFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), "k", token(time.Now().Add(time.Hour))))
	assert.True(t, mr.Exists("k"))

	_, err = cache.NewRedisStoreFromURL("::not a url")
	assert.Error(t, err)
}
