package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/ellarises/webapp/pkg/job"
	"github.com/ellarises/webapp/pkg/session"
)

// Component is the interface for renderable templates.
// This is compatible with templ.Component.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the underlying request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns the URL parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Param(name string) string

	// Query returns the query parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Form returns the form value by name.
	// Calls ParseForm internally on first access.
	// Returns empty string if the field doesn't exist.
	Form(name string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to the given URL with the given status code.
	Redirect(code int, url string) error

	// Error creates and returns an HTTPError without writing a response.
	// The error should be returned from the handler to trigger the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Render renders a component with the given status code.
	// Pending flash messages are cleared before the first byte goes out,
	// so a batch survives exactly one page render. Handlers snapshot the
	// batch via Messages() when building the page.
	// Compatible with templ.Component.
	Render(code int, component Component) error

	// Written returns true if a response has already been written.
	Written() bool

	// Logger returns the logger for advanced usage.
	Logger() *slog.Logger

	// LogDebug logs a debug message with optional attributes.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with optional attributes.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with optional attributes.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with optional attributes.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	// The value can be retrieved using Get or from c.Context().Value(key).
	Set(key any, value any)

	// Get retrieves a value from the request context.
	// Returns nil if the key is not found.
	Get(key any) any

	// Session returns the current session, loading or creating it as needed.
	// Returns session.ErrNotConfigured if WithSession was not called.
	// Returns nil, nil if no session cookie exists.
	Session() (*session.Session, error)

	// InitSession creates a new anonymous session for this request.
	// Returns session.ErrNotConfigured if WithSession was not called.
	InitSession() error

	// CurrentUser returns the identity attached to the session.
	// Returns nil for anonymous visitors or when sessions are unavailable.
	CurrentUser() *session.Identity

	// IsAuthenticated returns true if a user is associated with the session.
	IsAuthenticated() bool

	// Login attaches the identity to the session and rotates the token.
	// Creates a new session if one doesn't exist.
	// Returns session.ErrNotConfigured if WithSession was not called.
	Login(user session.Identity) error

	// Logout destroys the session and clears the cookie.
	// Returns session.ErrNotConfigured if WithSession was not called.
	Logout() error

	// Flash replaces the pending one-shot message batch on the session.
	// Creates a session if none exists so anonymous visitors see
	// confirmations too.
	Flash(msgs ...session.Message) error

	// Messages returns the pending flash batch without clearing it.
	Messages() []session.Message

	// SetReturnTo records the path to resume after a successful login.
	SetReturnTo(path string) error

	// ConsumeReturnTo returns the recorded return path and deletes it.
	// Returns empty string if none was set or no session exists.
	ConsumeReturnTo() string

	// Enqueue adds a job to the queue for background processing.
	// Returns job.ErrNotConfigured if jobs are not configured.
	Enqueue(name string, payload any, opts ...job.EnqueueOption) error

	// EnqueueTx adds a job to the queue within a transaction.
	// The job is only visible after the transaction commits.
	// Returns job.ErrNotConfigured if jobs are not configured.
	EnqueueTx(tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error

	// ResponseWriter returns the underlying ResponseWriter for advanced usage.
	ResponseWriter() *ResponseWriter
}

// requestContext implements the Context interface.
type requestContext struct {
	response       http.ResponseWriter
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger

	sessionManager *SessionManager
	session        *session.Session

	jobEnqueuer *JobEnqueuer

	sessionLoaded         bool
	sessionHookRegistered bool
}

// newContext creates a new context with the response wrapper.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw := NewResponseWriter(w)

	return &requestContext{
		request:        r,
		response:       rw,
		responseWriter: rw,
		logger:         app.logger,
		sessionManager: app.sessionManager,
		jobEnqueuer:    app.jobEnqueuer,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	v := c.request.URL.Query().Get(name)
	if v == "" {
		return defaultValue
	}
	return v
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	err := NewHTTPError(code, message)
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// Render renders a component with the given status code.
// The pending flash batch is cleared before WriteHeader so the session
// flush hook persists the cleared state with the same response.
func (c *requestContext) Render(code int, component Component) error {
	if c.sessionLoaded && c.session != nil {
		c.session.ClearMessages()
	}

	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)

	return component.Render(c.request.Context(), c.response)
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

// registerSessionHook ensures the session flush hook is registered once.
// It runs before the response is written to persist any session changes.
func (c *requestContext) registerSessionHook() {
	if c.sessionHookRegistered || c.sessionManager == nil || c.responseWriter == nil {
		return
	}
	c.sessionHookRegistered = true
	c.responseWriter.OnBeforeWrite(func() {
		if c.session != nil && c.session.IsDirty() {
			// Best-effort save; errors are logged but not propagated
			// to avoid interrupting response rendering
			if err := c.sessionManager.Store().Update(c.Context(), c.session); err != nil {
				c.logger.ErrorContext(c.Context(), "failed to save session", "error", err)
				return
			}
			c.session.ClearDirty()
		}
	})
}

// Session returns the current session, loading it from the store if needed.
// Returns session.ErrNotConfigured if WithSession was not called.
func (c *requestContext) Session() (*session.Session, error) {
	if c.sessionManager == nil {
		return nil, session.ErrNotConfigured
	}

	c.registerSessionHook()

	if c.sessionLoaded {
		return c.session, nil
	}

	sess, err := c.sessionManager.LoadSession(c.Context(), c.request)
	if err != nil {
		return nil, err
	}

	c.session = sess
	c.sessionLoaded = true
	return c.session, nil
}

// InitSession creates a new anonymous session for this request.
// Returns session.ErrNotConfigured if WithSession was not called.
func (c *requestContext) InitSession() error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}

	c.registerSessionHook()

	sess, err := c.sessionManager.CreateSession(c.Context())
	if err != nil {
		return err
	}

	c.session = sess
	c.sessionLoaded = true
	c.sessionManager.SaveSession(c.response, sess)
	return nil
}

func (c *requestContext) CurrentUser() *session.Identity {
	sess, err := c.Session()
	if err != nil || sess == nil {
		return nil
	}
	return sess.User
}

func (c *requestContext) IsAuthenticated() bool {
	user := c.CurrentUser()
	return user != nil && user.ID != ""
}

// Login attaches the identity to the session and rotates the token.
// Returns session.ErrNotConfigured if WithSession was not called.
func (c *requestContext) Login(user session.Identity) error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}

	sess, err := c.sessionOrInit()
	if err != nil {
		return err
	}

	sess.Authenticate(user)

	// Rotate token to prevent session fixation attacks.
	if err := c.sessionManager.RotateToken(c.Context(), sess); err != nil {
		return err
	}

	c.sessionManager.SaveSession(c.response, sess)
	return nil
}

// Logout destroys the session and clears the cookie.
func (c *requestContext) Logout() error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}

	if c.session != nil {
		if err := c.sessionManager.Store().Delete(c.Context(), c.session.ID); err != nil {
			return err
		}
	}

	c.sessionManager.DeleteSession(c.response)

	c.session = nil
	c.sessionLoaded = true // loaded-as-nil prevents reload from the stale cookie
	return nil
}

func (c *requestContext) Flash(msgs ...session.Message) error {
	sess, err := c.sessionOrInit()
	if err != nil {
		return err
	}
	sess.Flash(msgs...)
	return nil
}

func (c *requestContext) Messages() []session.Message {
	sess, err := c.Session()
	if err != nil || sess == nil {
		return nil
	}
	return sess.PendingMessages()
}

func (c *requestContext) SetReturnTo(path string) error {
	sess, err := c.sessionOrInit()
	if err != nil {
		return err
	}
	sess.SetReturnTo(path)
	return nil
}

func (c *requestContext) ConsumeReturnTo() string {
	sess, err := c.Session()
	if err != nil || sess == nil {
		return ""
	}
	return sess.ConsumeReturnTo()
}

// sessionOrInit loads the session, creating one when the visitor has none.
func (c *requestContext) sessionOrInit() (*session.Session, error) {
	sess, err := c.Session()
	if err != nil {
		c.logger.WarnContext(c.Context(), "failed to load session", "error", err)
	}
	if sess == nil {
		if err := c.InitSession(); err != nil {
			return nil, err
		}
		sess = c.session
	}
	return sess, nil
}

func (c *requestContext) Enqueue(name string, payload any, opts ...job.EnqueueOption) error {
	if c.jobEnqueuer == nil {
		return job.ErrNotConfigured
	}
	return c.jobEnqueuer.Enqueue(c.Context(), name, payload, opts...)
}

func (c *requestContext) EnqueueTx(tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error {
	if c.jobEnqueuer == nil {
		return job.ErrNotConfigured
	}
	return c.jobEnqueuer.EnqueueTx(c.Context(), tx, name, payload, opts...)
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}
