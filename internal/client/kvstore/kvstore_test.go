package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ikkim/storefront/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Store{
		BackendFile:   fileStore,
		BackendRedis:  NewRedisStore(client, "shop:"),
		BackendMemory: NewMemoryStore(),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, KeyCart)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, KeyCart, []byte(`[{"id":"1"}]`)))
			require.NoError(t, store.Set(ctx, KeyCart, []byte(`[{"id":"2"}]`)))

			got, err := store.Get(ctx, KeyCart)
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"2"}]`, string(got))

			require.NoError(t, store.Delete(ctx, KeyCart))
			require.NoError(t, store.Delete(ctx, KeyCart))
			_, err = store.Get(ctx, KeyCart)
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, store.Set(ctx, "../escape", nil), ErrInvalidKey)
		})
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeySession, []byte(`{"token":"t"}`)))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := second.Get(ctx, KeySession)
	require.NoError(t, err)
	assert.Equal(t, `{"token":"t"}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client, "shop:")
	require.NoError(t, store.Set(context.Background(), KeyWishlist, []byte(`[]`)))

	assert.True(t, mr.Exists("shop:wishlist"))
	assert.Zero(t, mr.TTL("shop:wishlist"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := Open(ctx, &config.ClientConfig{StateBackend: BackendFile, StateDir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	store, closeFn, err = Open(ctx, &config.ClientConfig{StateBackend: BackendRedis, KeyPrefix: "p:"},
		&config.RedisConfig{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, KeyCart, []byte(`[]`)))
	assert.True(t, mr.Exists("p:cart"))
	assert.NoError(t, closeFn())

	_, _, err = Open(ctx, &config.ClientConfig{StateBackend: "etcd"}, nil)
	assert.Error(t, err)
}
