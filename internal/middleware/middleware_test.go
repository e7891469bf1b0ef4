package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ellarises/webapp/internal/middleware"
	"github.com/ellarises/webapp/internal/web"
	"github.com/ellarises/webapp/pkg/session"
)

// routesFunc adapts a function to the web.Handler interface.
type routesFunc func(r web.Router)

func (f routesFunc) Routes(r web.Router) { f(r) }

// seedSession creates an authenticated session in the store and returns
// the cookie that references it.
func seedSession(t *testing.T, store *session.MemoryStore, role session.Role) *http.Cookie {
	t.Helper()

	sess := session.New("01TESTSESSIONID00000000000", "test-token-"+string(role), time.Now().Add(time.Hour))
	sess.Authenticate(session.Identity{
		ID:       "user-1",
		Username: "casey",
		Email:    "casey@example.com",
		Role:     role,
	})
	require.NoError(t, store.Create(t.Context(), sess))

	return &http.Cookie{Name: "__sid", Value: sess.Token}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	app := web.New(
		web.WithMiddleware(middleware.RequestID()),
		web.WithHandlers(routesFunc(func(r web.Router) {
			r.GET("/", func(c web.Context) error {
				return c.String(http.StatusOK, middleware.GetRequestID(c))
			})
		})),
	)

	t.Run("generates id when absent", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("preserves upstream id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-42")
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		require.Equal(t, "upstream-42", rec.Header().Get("X-Request-ID"))
	})
}

func TestRecover(t *testing.T) {
	t.Parallel()

	app := web.New(
		web.WithMiddleware(middleware.Recover()),
		web.WithErrorHandler(func(c web.Context, err error) error {
			if _, ok := middleware.AsPanicError(err); ok {
				return c.String(http.StatusInternalServerError, "Internal Server Error")
			}
			return c.String(http.StatusInternalServerError, err.Error())
		}),
		web.WithHandlers(routesFunc(func(r web.Router) {
			r.GET("/boom", func(c web.Context) error {
				panic("kaboom")
			})
		})),
	)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := web.New(
		web.WithSession(store),
		web.WithHandlers(routesFunc(func(r web.Router) {
			r.GET("/dashboard", func(c web.Context) error {
				return c.String(http.StatusOK, "dashboard")
			}, middleware.RequireAuth())
		})),
	)

	t.Run("redirects anonymous to login", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard?tab=events", nil))

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("records return path", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard?tab=events", nil))

		// A session was created for the visitor and the requested path recorded.
		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)
		sess, err := store.Get(t.Context(), cookies[0].Value)
		require.NoError(t, err)
		require.Equal(t, "/dashboard?tab=events", sess.ReturnTo)
	})

	t.Run("passes authenticated visitor through", func(t *testing.T) {
		t.Parallel()

		localStore := session.NewMemoryStore()
		localApp := web.New(
			web.WithSession(localStore),
			web.WithHandlers(routesFunc(func(r web.Router) {
				r.GET("/dashboard", func(c web.Context) error {
					return c.String(http.StatusOK, "dashboard")
				}, middleware.RequireAuth())
			})),
		)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(seedSession(t, localStore, session.RoleUser))
		rec := httptest.NewRecorder()
		localApp.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "dashboard", rec.Body.String())
	})
}

func TestRequireManager(t *testing.T) {
	t.Parallel()

	newApp := func(store *session.MemoryStore) *web.App {
		return web.New(
			web.WithSession(store),
			web.WithHandlers(routesFunc(func(r web.Router) {
				r.GET("/users", func(c web.Context) error {
					return c.String(http.StatusOK, "user list")
				}, middleware.RequireManager(nil))
			})),
		)
	}

	t.Run("allows manager", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(seedSession(t, store, session.RoleManager))
		rec := httptest.NewRecorder()
		newApp(store).Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("denies regular user", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(seedSession(t, store, session.RoleUser))
		rec := httptest.NewRecorder()
		newApp(store).Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "Access denied.", rec.Body.String())
	})

	t.Run("denies unknown role", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(seedSession(t, store, session.Role("superadmin")))
		rec := httptest.NewRecorder()
		newApp(store).Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("denies anonymous", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		rec := httptest.NewRecorder()
		newApp(store).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("custom deny handler", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		app := web.New(
			web.WithSession(store),
			web.WithHandlers(routesFunc(func(r web.Router) {
				r.GET("/users", func(c web.Context) error {
					return c.String(http.StatusOK, "user list")
				}, middleware.RequireManager(func(c web.Context) error {
					return c.String(http.StatusForbidden, "themed forbidden page")
				}))
			})),
		)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(seedSession(t, store, session.RoleUser))
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "themed forbidden page", rec.Body.String())
	})
}
