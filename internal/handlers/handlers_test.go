package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ellarises/webapp/internal/handlers"
	"github.com/ellarises/webapp/internal/middleware"
	"github.com/ellarises/webapp/internal/repository"
	"github.com/ellarises/webapp/internal/web"
	"github.com/ellarises/webapp/pkg/passwd"
	"github.com/ellarises/webapp/pkg/session"
)

// stubDirectory serves accounts from a map, keyed by username.
type stubDirectory map[string]*repository.User

func (d stubDirectory) GetByUsername(_ context.Context, username string) (*repository.User, error) {
	user, ok := d[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

// stubDonations serves a fixed donation list; mutations are rejected.
type stubDonations struct {
	donations []repository.Donation
	err       error
}

func (s *stubDonations) List(_ context.Context) ([]repository.Donation, error) {
	return s.donations, s.err
}

func (s *stubDonations) Get(_ context.Context, _ uuid.UUID) (*repository.Donation, error) {
	return nil, repository.ErrNotFound
}

func (s *stubDonations) Create(_ context.Context, _ repository.Donation) (*repository.Donation, error) {
	return nil, repository.ErrNotFound
}

func (s *stubDonations) Update(_ context.Context, _ repository.Donation) error {
	return repository.ErrNotFound
}

func (s *stubDonations) Delete(_ context.Context, _ uuid.UUID) error {
	return repository.ErrNotFound
}

// stubParticipants mirrors stubDonations for the participants screens.
type stubParticipants struct {
	participants []repository.Participant
	err          error
}

func (s *stubParticipants) List(_ context.Context) ([]repository.Participant, error) {
	return s.participants, s.err
}

func (s *stubParticipants) Get(_ context.Context, _ uuid.UUID) (*repository.Participant, error) {
	return nil, repository.ErrNotFound
}

func (s *stubParticipants) Create(_ context.Context, _ repository.Participant) (*repository.Participant, error) {
	return nil, repository.ErrNotFound
}

func (s *stubParticipants) Update(_ context.Context, _ repository.Participant) error {
	return repository.ErrNotFound
}

func (s *stubParticipants) Delete(_ context.Context, _ uuid.UUID) error {
	return repository.ErrNotFound
}

type testStores struct {
	donations    handlers.DonationStore
	participants handlers.ParticipantStore
}

func newTestApp(t *testing.T, store session.Store, users handlers.UserDirectory, stores ...testStores) *web.App {
	t.Helper()
	s := testStores{
		donations:    &stubDonations{},
		participants: &stubParticipants{},
	}
	if len(stores) > 0 {
		s = stores[0]
	}
	return web.New(
		web.WithSession(store),
		web.WithMiddleware(middleware.RequestID(), middleware.Recover()),
		web.WithHandlers(
			handlers.NewPages(nil, nil),
			handlers.NewAuth(users),
			handlers.NewDonations(s.donations),
			handlers.NewParticipants(s.participants),
		),
		web.WithErrorHandler(handlers.ErrorHandler),
		web.WithNotFoundHandler(handlers.NotFoundHandler),
		web.WithMethodNotAllowedHandler(handlers.MethodNotAllowedHandler),
	)
}

// seedSession plants an authenticated session directly in the store and
// returns the cookie a browser holding it would send.
func seedSession(t *testing.T, store session.Store, role session.Role) *http.Cookie {
	t.Helper()
	sess := session.New("01SEED"+string(role)+"0000000000000", "seed-token-"+string(role), time.Now().Add(time.Hour))
	sess.Authenticate(session.Identity{
		ID:       "11111111-1111-1111-1111-111111111111",
		Username: "seeded-" + string(role),
		Role:     role,
	})
	require.NoError(t, store.Create(t.Context(), sess))
	return &http.Cookie{Name: "__sid", Value: sess.Token}
}

func get(app *web.App, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func postForm(app *web.App, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "__sid" {
			return c
		}
	}
	return nil
}

func TestPublicPages(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, session.NewMemoryStore(), stubDirectory{})

	for _, path := range []string{"/", "/about", "/contact", "/donate", "/login"} {
		rec := get(app, path)
		require.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

func TestTeapot(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, session.NewMemoryStore(), stubDirectory{})

	rec := get(app, "/teapot")
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Contains(t, rec.Body.String(), "teapot")
}

func TestUnknownRouteRenders404(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, session.NewMemoryStore(), stubDirectory{})

	rec := get(app, "/no/such/page")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// TestResourceListsArePublic checks that the list screens render for
// every viewer kind, and that the manage controls (the "Add new" button
// and the per-row actions column) only appear for managers. The list
// route shares a registration block with the gated routes, so this also
// pins down that the gate does not swallow it.
func TestResourceListsArePublic(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := newTestApp(t, store, stubDirectory{}, testStores{
		donations: &stubDonations{donations: []repository.Donation{{
			ID:            uuid.New(),
			DonorName:     "Jane Giver",
			Amount:        150,
			PaymentMethod: "card",
			DonationDate:  time.Now(),
		}}},
		participants: &stubParticipants{participants: []repository.Participant{{
			ID:        uuid.New(),
			FirstName: "Rosa",
			LastName:  "Mendez",
		}}},
	})

	userCookie := seedSession(t, store, session.RoleUser)
	managerCookie := seedSession(t, store, session.RoleManager)

	for _, tc := range []struct {
		path string
		want string
	}{
		{"/donations", "Jane Giver"},
		{"/participants", "Rosa Mendez"},
	} {
		rec := get(app, tc.path)
		require.Equal(t, http.StatusOK, rec.Code, "anonymous GET %s", tc.path)
		require.Contains(t, rec.Body.String(), tc.want)
		require.NotContains(t, rec.Body.String(), tc.path+"/new")
		require.NotContains(t, rec.Body.String(), "Actions")

		rec = get(app, tc.path, userCookie)
		require.Equal(t, http.StatusOK, rec.Code, "user GET %s", tc.path)
		require.Contains(t, rec.Body.String(), tc.want)
		require.NotContains(t, rec.Body.String(), tc.path+"/new")

		rec = get(app, tc.path, managerCookie)
		require.Equal(t, http.StatusOK, rec.Code, "manager GET %s", tc.path)
		require.Contains(t, rec.Body.String(), tc.want)
		require.Contains(t, rec.Body.String(), tc.path+"/new")
		require.Contains(t, rec.Body.String(), "Actions")
	}
}

// TestListRendersWhenStoreFails pins down the degraded path: a backing
// store error still yields a 200 page, empty, with a notice.
func TestListRendersWhenStoreFails(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, session.NewMemoryStore(), stubDirectory{}, testStores{
		donations:    &stubDonations{err: context.DeadlineExceeded},
		participants: &stubParticipants{},
	})

	rec := get(app, "/donations")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Could not load donations.")
	require.Contains(t, rec.Body.String(), "Nothing here yet.")
}

func TestWrongMethodRendersThemed405(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, session.NewMemoryStore(), stubDirectory{})

	rec := postForm(app, "/teapot", url.Values{})
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Contains(t, rec.Body.String(), "Method not allowed")
}

// TestDonationsAccessLadder walks one protected route through all three
// viewer kinds: anonymous, signed-in non-manager, and manager.
func TestDonationsAccessLadder(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := newTestApp(t, store, stubDirectory{})

	// Anonymous visitors are sent to the login page.
	rec := get(app, "/donations/new")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	// A signed-in non-manager is refused outright.
	userCookie := seedSession(t, store, session.RoleUser)
	rec = get(app, "/donations/new", userCookie)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Access denied.", rec.Body.String())

	// A manager sees the form.
	managerCookie := seedSession(t, store, session.RoleManager)
	rec = get(app, "/donations/new", managerCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "form")
}

func TestLoginRoundTripWithReturnPath(t *testing.T) {
	t.Parallel()

	hash, err := passwd.Hash("correct horse battery")
	require.NoError(t, err)

	store := session.NewMemoryStore()
	app := newTestApp(t, store, stubDirectory{
		"maria": {Username: "maria", Email: "maria@example.org", PasswordHash: hash, Role: "manager"},
	})

	// The gate remembers where the visitor was headed.
	rec := get(app, "/dashboard")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	anonCookie := sessionCookie(rec)
	require.NotNil(t, anonCookie)

	// Wrong password re-renders the form; no identity is attached.
	rec = postForm(app, "/login", url.Values{
		"username": {"maria"}, "password": {"wrong"},
	}, anonCookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid username or password.")

	rec = get(app, "/dashboard", anonCookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// Correct credentials resume the interrupted navigation.
	rec = postForm(app, "/login", url.Values{
		"username": {"maria"}, "password": {"correct horse battery"},
	}, anonCookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	authCookie := sessionCookie(rec)
	require.NotNil(t, authCookie)
	require.NotEqual(t, anonCookie.Value, authCookie.Value)

	rec = get(app, "/dashboard", authCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "maria")

	// The return path was consumed; a second login goes to the default.
	rec = postForm(app, "/login", url.Values{
		"username": {"maria"}, "password": {"correct horse battery"},
	}, authCookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestLoginUnknownUserIndistinguishable(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, session.NewMemoryStore(), stubDirectory{})

	rec := postForm(app, "/login", url.Values{
		"username": {"nobody"}, "password": {"whatever"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid username or password.")
}

func TestLoginFormRedirectsWhenAuthenticated(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := newTestApp(t, store, stubDirectory{})
	cookie := seedSession(t, store, session.RoleUser)

	rec := get(app, "/login", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestLogoutEndsSession(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := newTestApp(t, store, stubDirectory{})
	cookie := seedSession(t, store, session.RoleManager)

	rec := get(app, "/logout", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	rec = get(app, "/dashboard", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

// TestFlashShownOnceAfterRedirect drives the reject-then-reload cycle:
// the failure notice appears on the re-rendered form and is gone on the
// next full page load.
func TestFlashShownOnceAfterRedirect(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	app := newTestApp(t, store, stubDirectory{})

	rec := postForm(app, "/login", url.Values{
		"username": {"ghost"}, "password": {"x"},
	})
	require.Contains(t, rec.Body.String(), "Invalid username or password.")
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	rec = get(app, "/login", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "Invalid username or password.")
}
