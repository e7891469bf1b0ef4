package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ellarises/webapp/pkg/session"
)

// messageEcho renders the pending flash batch, one line per message.
type messageEcho struct {
	msgs []session.Message
}

func (m messageEcho) Render(_ context.Context, w io.Writer) error {
	for _, msg := range m.msgs {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", msg.Kind, msg.Text); err != nil {
			return err
		}
	}
	return nil
}

type testRoutes func(r Router)

func (f testRoutes) Routes(r Router) { f(r) }

// sessionCookie extracts the session cookie from a response, if any.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == defaultSessionCookieName {
			return c
		}
	}
	return nil
}

func newFlashApp(store session.Store) *App {
	return New(
		WithSession(store),
		WithHandlers(testRoutes(func(r Router) {
			r.POST("/go", func(c Context) error {
				if err := c.Flash(session.Success("it worked")); err != nil {
					return err
				}
				return c.Redirect(http.StatusSeeOther, "/page")
			})
			r.GET("/page", func(c Context) error {
				return c.Render(http.StatusOK, messageEcho{msgs: c.Messages()})
			})
		})),
	)
}

func TestFlashSurvivesExactlyOneRender(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := newFlashApp(store)

	// Submit: the flash is queued and the visitor gets a session cookie.
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/go", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	// First render observes the batch.
	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "[success] it worked")

	// Second render observes nothing: the batch was drained.
	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestFlashReplacesPendingBatch(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := New(
		WithSession(store),
		WithHandlers(testRoutes(func(r Router) {
			r.POST("/twice", func(c Context) error {
				if err := c.Flash(session.Error("first")); err != nil {
					return err
				}
				if err := c.Flash(session.Success("second")); err != nil {
					return err
				}
				return c.Redirect(http.StatusSeeOther, "/page")
			})
			r.GET("/page", func(c Context) error {
				return c.Render(http.StatusOK, messageEcho{msgs: c.Messages()})
			})
		})),
	)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/twice", nil))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)

	body := rec.Body.String()
	require.NotContains(t, body, "first")
	require.Contains(t, body, "[success] second")
}

func TestLoginRotatesToken(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := New(
		WithSession(store),
		WithHandlers(testRoutes(func(r Router) {
			r.POST("/start", func(c Context) error {
				if err := c.InitSession(); err != nil {
					return err
				}
				return c.NoContent(http.StatusNoContent)
			})
			r.POST("/login", func(c Context) error {
				return c.Login(session.Identity{
					ID: "u1", Username: "casey", Role: session.RoleManager,
				})
			})
			r.GET("/whoami", func(c Context) error {
				user := c.CurrentUser()
				if user == nil {
					return c.String(http.StatusOK, "anonymous")
				}
				return c.String(http.StatusOK, user.Username)
			})
		})),
	)

	// Establish an anonymous session.
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/start", nil))
	anonCookie := sessionCookie(rec)
	require.NotNil(t, anonCookie)

	// Log in with the anonymous cookie; a rotated token comes back.
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(anonCookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	authCookie := sessionCookie(rec)
	require.NotNil(t, authCookie)
	require.NotEqual(t, anonCookie.Value, authCookie.Value)

	// The old token no longer resolves; session fixation is closed off.
	_, err := store.Get(t.Context(), anonCookie.Value)
	require.ErrorIs(t, err, session.ErrNotFound)

	// The new cookie carries the identity.
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(authCookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	require.Equal(t, "casey", rec.Body.String())
}

func TestLogoutDestroysSession(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := New(
		WithSession(store),
		WithHandlers(testRoutes(func(r Router) {
			r.POST("/login", func(c Context) error {
				return c.Login(session.Identity{ID: "u1", Username: "casey", Role: session.RoleUser})
			})
			r.GET("/logout", func(c Context) error {
				if err := c.Logout(); err != nil {
					return err
				}
				return c.Redirect(http.StatusSeeOther, "/")
			})
			r.GET("/whoami", func(c Context) error {
				if user := c.CurrentUser(); user != nil {
					return c.String(http.StatusOK, user.Username)
				}
				return c.String(http.StatusOK, "anonymous")
			})
		})),
	)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// The old token now behaves like a fresh anonymous visit.
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	require.Equal(t, "anonymous", rec.Body.String())
}

func TestReturnToRoundTrip(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := New(
		WithSession(store),
		WithHandlers(testRoutes(func(r Router) {
			r.POST("/remember", func(c Context) error {
				if err := c.SetReturnTo("/participants/new"); err != nil {
					return err
				}
				return c.NoContent(http.StatusNoContent)
			})
			r.POST("/resume", func(c Context) error {
				target := c.ConsumeReturnTo()
				if target == "" {
					target = "/dashboard"
				}
				return c.String(http.StatusOK, target)
			})
		})),
	)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/remember", nil))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/resume", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	require.Equal(t, "/participants/new", rec.Body.String())

	// Consumed: the second resume falls back to the default.
	req = httptest.NewRequest(http.MethodPost, "/resume", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	require.Equal(t, "/dashboard", rec.Body.String())
}

// failingComponent writes part of a body and then fails.
type failingComponent struct{}

func (failingComponent) Render(_ context.Context, w io.Writer) error {
	if _, err := io.WriteString(w, "partial"); err != nil {
		return err
	}
	return errors.New("template exploded")
}

func TestRenderFailureClearsFlashAndNeverDoubleResponds(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := New(
		WithSession(store),
		WithErrorHandler(func(c Context, err error) error {
			// Never reached for mid-body failures: the app skips the
			// error handler once output has started.
			return c.String(http.StatusInternalServerError, "error page")
		}),
		WithHandlers(testRoutes(func(r Router) {
			r.POST("/go", func(c Context) error {
				if err := c.Flash(session.Error("doomed")); err != nil {
					return err
				}
				return c.Redirect(http.StatusSeeOther, "/broken")
			})
			r.GET("/broken", func(c Context) error {
				return c.Render(http.StatusOK, failingComponent{})
			})
			r.GET("/page", func(c Context) error {
				return c.Render(http.StatusOK, messageEcho{msgs: c.Messages()})
			})
		})),
	)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/go", nil))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	// The render fails mid-body: output already started, so the error
	// handler must not write a second response.
	req := httptest.NewRequest(http.MethodGet, "/broken", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	require.Equal(t, "partial", rec.Body.String())

	// The flash batch was still cleared exactly once.
	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	require.Empty(t, rec.Body.String())
}

func TestSessionNotConfigured(t *testing.T) {
	t.Parallel()

	app := New(
		WithHandlers(testRoutes(func(r Router) {
			r.GET("/", func(c Context) error {
				_, err := c.Session()
				require.ErrorIs(t, err, session.ErrNotConfigured)
				require.Nil(t, c.CurrentUser())
				return c.NoContent(http.StatusNoContent)
			})
		})),
	)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
