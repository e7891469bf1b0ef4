package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ellarises/webapp/pkg/session"
)

func TestMemoryStore_CreateGet(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	ctx := context.Background()

	sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, "token-1")
	require.NoError(t, err)
	require.Equal(t, "id-1", got.ID)

	_, err = store.Get(ctx, "nope")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_CreateRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	err := store.Create(context.Background(), session.New("id-1", "", time.Now().Add(time.Hour)))
	require.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestMemoryStore_GetExpired(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	ctx := context.Background()

	sess := session.New("id-1", "token-1", time.Now().Add(10*time.Millisecond))
	require.NoError(t, store.Create(ctx, sess))

	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, "token-1")
	require.ErrorIs(t, err, session.ErrExpired)

	// Expired session is evicted, so a second lookup misses entirely.
	_, err = store.Get(ctx, "token-1")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_UpdateTokenRotation(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	ctx := context.Background()

	sess := session.New("id-1", "token-old", time.Now().Add(time.Hour))
	require.NoError(t, store.Create(ctx, sess))

	sess.Token = "token-new"
	require.NoError(t, store.Update(ctx, sess))

	_, err := store.Get(ctx, "token-old")
	require.ErrorIs(t, err, session.ErrNotFound)

	got, err := store.Get(ctx, "token-new")
	require.NoError(t, err)
	require.Equal(t, "id-1", got.ID)
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	ctx := context.Background()

	sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
	require.NoError(t, store.Create(ctx, sess))

	require.NoError(t, store.Delete(ctx, "id-1"))

	_, err := store.Get(ctx, "token-1")
	require.ErrorIs(t, err, session.ErrNotFound)

	// Deleting a missing session is a no-op.
	require.NoError(t, store.Delete(ctx, "id-1"))
}

func TestMemoryStore_DeleteByUserID(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	ctx := context.Background()

	first := session.New("id-1", "token-1", time.Now().Add(time.Hour))
	first.Authenticate(session.Identity{ID: "user-1", Role: session.RoleUser})
	second := session.New("id-2", "token-2", time.Now().Add(time.Hour))
	second.Authenticate(session.Identity{ID: "user-1", Role: session.RoleUser})
	other := session.New("id-3", "token-3", time.Now().Add(time.Hour))
	other.Authenticate(session.Identity{ID: "user-2", Role: session.RoleUser})

	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, other))

	require.NoError(t, store.DeleteByUserID(ctx, "user-1"))

	_, err := store.Get(ctx, "token-1")
	require.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.Get(ctx, "token-2")
	require.ErrorIs(t, err, session.ErrNotFound)

	_, err = store.Get(ctx, "token-3")
	require.NoError(t, err)
}

func TestMemoryStore_Touch(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	ctx := context.Background()

	sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
	require.NoError(t, store.Create(ctx, sess))

	ts := time.Now().Add(time.Minute).Truncate(time.Second)
	require.NoError(t, store.Touch(ctx, "id-1", ts))

	got, err := store.Get(ctx, "token-1")
	require.NoError(t, err)
	require.True(t, got.LastActiveAt.Equal(ts))

	require.ErrorIs(t, store.Touch(ctx, "missing", ts), session.ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	ctx := context.Background()

	sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
	sess.Flash(session.Success("saved"))
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, "token-1")
	require.NoError(t, err)
	got.ClearMessages()

	again, err := store.Get(ctx, "token-1")
	require.NoError(t, err)
	require.Len(t, again.PendingMessages(), 1)
}
