package session

import (
	"context"
	"testing"

	"github.com/ikkim/storefront/internal/client/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jane = Session{
	Token: "token-1",
	User:  User{ID: "u1", Email: "jane@shop.test", FullName: "Jane Doe", Role: RoleUser},
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	require.NoError(t, NewStore(kv).Save(ctx, jane))

	// A fresh store over the same backend sees the same session.
	restored := NewStore(kv)
	assert.False(t, restored.Loaded())
	got, err := restored.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, jane, *got)
	assert.True(t, restored.Loaded())

	current, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", current.User.FullName)
}

func TestStore_LoadPurgesCorruptRecord(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Not JSON", `{"token":`},
		{"Missing user", `{"token":"t"}`},
		{"Missing token", `{"user":{"id":"u1"}}`},
		{"Wrong shape", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := kvstore.NewMemoryStore()
			require.NoError(t, kv.Set(ctx, kvstore.KeySession, []byte(tt.data)))

			store := NewStore(kv)
			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)

			_, ok := store.Current()
			assert.False(t, ok)
			_, err = kv.Get(ctx, kvstore.KeySession)
			assert.ErrorIs(t, err, kvstore.ErrNotFound)
		})
	}
}

func TestStore_SaveRejectsPartialSession(t *testing.T) {
	store := NewStore(kvstore.NewMemoryStore())

	err := store.Save(context.Background(), Session{Token: "t"})
	assert.ErrorIs(t, err, ErrIncomplete)
	_, ok := store.Current()
	assert.False(t, ok)
}

func TestStore_ClearAndSubscribe(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kvstore.NewMemoryStore())

	var seen []*Session
	unsubscribe := store.Subscribe(func(s *Session) { seen = append(seen, s) })

	require.NoError(t, store.Save(ctx, jane))
	require.NoError(t, store.Clear(ctx))

	require.Len(t, seen, 2)
	assert.Equal(t, "u1", seen[0].User.ID)
	assert.Nil(t, seen[1])

	_, ok := store.Current()
	assert.False(t, ok)

	unsubscribe()
	require.NoError(t, store.Save(ctx, jane))
	assert.Len(t, seen, 2)
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kvstore.NewMemoryStore())

	var role string
	store.Subscribe(func(*Session) {
		if s, ok := store.Current(); ok {
			role = s.User.Role
		}
	})

	admin := jane
	admin.User.Role = RoleAdmin
	require.NoError(t, store.Save(ctx, admin))
	assert.Equal(t, RoleAdmin, role)
}
