package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ellarises/webapp/pkg/session"
)

// brokenStore simulates a backing store outage on writes.
type brokenStore struct {
	*session.MemoryStore
	updateErr error
}

func (s *brokenStore) Update(ctx context.Context, sess *session.Session) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.MemoryStore.Update(ctx, sess)
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: defaultSessionCookieName, Value: token})
	return req
}

func TestLoadSessionAnonymousCases(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	sm := NewSessionManager(store)
	ctx := t.Context()

	t.Run("no cookie", func(t *testing.T) {
		sess, err := sm.LoadSession(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Nil(t, sess)
	})

	t.Run("empty token", func(t *testing.T) {
		sess, err := sm.LoadSession(ctx, requestWithToken(""))
		require.NoError(t, err)
		require.Nil(t, sess)
	})

	t.Run("unknown token", func(t *testing.T) {
		sess, err := sm.LoadSession(ctx, requestWithToken("no-such-token"))
		require.NoError(t, err)
		require.Nil(t, sess)
	})

	t.Run("expired session", func(t *testing.T) {
		expired := session.New("01EXPIRED0000000000000000", "stale-token", time.Now().Add(-time.Minute))
		require.NoError(t, store.Create(ctx, expired))

		sess, err := sm.LoadSession(ctx, requestWithToken("stale-token"))
		require.NoError(t, err)
		require.Nil(t, sess)
	})

	t.Run("live session", func(t *testing.T) {
		live := session.New("01LIVE000000000000000000", "live-token", time.Now().Add(time.Hour))
		require.NoError(t, store.Create(ctx, live))

		sess, err := sm.LoadSession(ctx, requestWithToken("live-token"))
		require.NoError(t, err)
		require.NotNil(t, sess)
		require.Equal(t, live.ID, sess.ID)
	})
}

func TestCreateSessionPersistsClean(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	sm := NewSessionManager(store)

	sess, err := sm.CreateSession(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	require.NotEmpty(t, sess.Token)
	require.False(t, sess.IsNew())
	require.False(t, sess.IsDirty())

	stored, err := store.Get(t.Context(), sess.Token)
	require.NoError(t, err)
	require.Equal(t, sess.ID, stored.ID)
}

func TestRotateTokenInvalidatesOldToken(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	sm := NewSessionManager(store)

	sess, err := sm.CreateSession(t.Context())
	require.NoError(t, err)
	oldToken := sess.Token

	require.NoError(t, sm.RotateToken(t.Context(), sess))
	require.NotEqual(t, oldToken, sess.Token)

	_, err = store.Get(t.Context(), oldToken)
	require.ErrorIs(t, err, session.ErrNotFound)

	stored, err := store.Get(t.Context(), sess.Token)
	require.NoError(t, err)
	require.Equal(t, sess.ID, stored.ID)
}

func TestRotateTokenRollsBackOnStoreError(t *testing.T) {
	t.Parallel()

	store := &brokenStore{MemoryStore: session.NewMemoryStore()}
	sm := NewSessionManager(store)

	sess, err := sm.CreateSession(t.Context())
	require.NoError(t, err)
	oldToken := sess.Token

	store.updateErr = errors.New("store unavailable")
	err = sm.RotateToken(t.Context(), sess)
	require.Error(t, err)

	// The session keeps its old token so the visitor is not logged out.
	require.Equal(t, oldToken, sess.Token)
	_, err = store.Get(t.Context(), oldToken)
	require.NoError(t, err)
}

func TestSessionCookieAttributes(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(session.NewMemoryStore(),
		WithSessionSecure(true),
		WithSessionMaxAge(3600),
	)
	sess := session.New("01COOKIE0000000000000000", "cookie-token", time.Now().Add(time.Hour))

	rec := httptest.NewRecorder()
	sm.SaveSession(rec, sess)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, defaultSessionCookieName, c.Name)
	require.Equal(t, "cookie-token", c.Value)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.Equal(t, 3600, c.MaxAge)

	rec = httptest.NewRecorder()
	sm.DeleteSession(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}
