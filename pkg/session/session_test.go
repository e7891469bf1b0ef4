package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ellarises/webapp/pkg/session"
)

func TestNew(t *testing.T) {
	t.Parallel()

	sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))

	require.Equal(t, "id-1", sess.ID)
	require.Equal(t, "token-1", sess.Token)
	require.True(t, sess.IsNew())
	require.True(t, sess.IsDirty())
	require.False(t, sess.IsAuthenticated())
	require.False(t, sess.IsExpired())
}

func TestSession_Authenticate(t *testing.T) {
	t.Parallel()

	sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
	sess.ClearDirty()

	sess.Authenticate(session.Identity{
		ID:       "user-1",
		Username: "maria",
		Email:    "maria@example.com",
		Role:     session.RoleManager,
	})

	require.True(t, sess.IsAuthenticated())
	require.True(t, sess.IsDirty())
	require.Equal(t, "maria", sess.User.Username)
	require.True(t, sess.User.Role.IsManager())
}

func TestSession_Flash(t *testing.T) {
	t.Parallel()

	t.Run("replaces pending batch", func(t *testing.T) {
		t.Parallel()

		sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
		sess.Flash(session.Error("first"))
		sess.Flash(session.Success("second"))

		msgs := sess.PendingMessages()
		require.Len(t, msgs, 1)
		require.Equal(t, session.MessageSuccess, msgs[0].Kind)
		require.Equal(t, "second", msgs[0].Text)
	})

	t.Run("peek does not clear", func(t *testing.T) {
		t.Parallel()

		sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
		sess.Flash(session.Success("saved"))

		require.Len(t, sess.PendingMessages(), 1)
		require.Len(t, sess.PendingMessages(), 1)
	})

	t.Run("clear empties batch and marks dirty", func(t *testing.T) {
		t.Parallel()

		sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
		sess.Flash(session.Success("saved"))
		sess.ClearDirty()

		sess.ClearMessages()
		require.Empty(t, sess.PendingMessages())
		require.True(t, sess.IsDirty())
	})

	t.Run("clear on empty batch stays clean", func(t *testing.T) {
		t.Parallel()

		sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
		sess.ClearDirty()

		sess.ClearMessages()
		require.False(t, sess.IsDirty())
	})
}

func TestSession_ReturnTo(t *testing.T) {
	t.Parallel()

	sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
	sess.SetReturnTo("/donations")

	require.Equal(t, "/donations", sess.ConsumeReturnTo())
	require.Empty(t, sess.ConsumeReturnTo())
}

func TestRole(t *testing.T) {
	t.Parallel()

	require.True(t, session.RoleUser.Valid())
	require.True(t, session.RoleManager.Valid())
	require.False(t, session.Role("admin").Valid())

	require.True(t, session.RoleManager.IsManager())
	require.False(t, session.RoleUser.IsManager())

	// Unknown roles never grant manager access.
	require.False(t, session.Role("superuser").IsManager())
	require.False(t, session.Role("").IsManager())
}
