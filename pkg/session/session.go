package session

import "time"

// Role is the closed set of roles an account can hold.
// Gates match on it exhaustively instead of comparing raw strings.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager:
		return true
	}
	return false
}

// IsManager reports whether the role grants manager access.
// Unknown roles are treated as non-manager (fail closed).
func (r Role) IsManager() bool {
	switch r {
	case RoleManager:
		return true
	case RoleUser:
		return false
	}
	return false
}

// Identity is the authenticated user's profile snapshot attached to a
// session at login time. Later changes to the underlying account record
// do not update live sessions; the session is the source of truth for
// the duration of each request.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// MessageKind classifies a flash message.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is a one-shot user-facing notification. It survives exactly
// one render cycle: written by a handler, shown once, then cleared.
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

// Success builds a success message.
func Success(text string) Message {
	return Message{Kind: MessageSuccess, Text: text}
}

// Error builds an error message.
func Error(text string) Message {
	return Message{Kind: MessageError, Text: text}
}

// Session is the server-side state keyed by an opaque per-browser token.
type Session struct {
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	User     *Identity `json:"user,omitempty"`     // nil = anonymous session
	Messages []Message `json:"messages,omitempty"` // pending flash batch
	ReturnTo string    `json:"return_to,omitempty"`
	ID       string    `json:"id"`    // unique identifier (ULID)
	Token    string    `json:"token"` // cookie token (distinct from ID for security)

	dirty bool // tracks if session needs saving
	isNew bool // tracks if session was just created
}

// New creates a new anonymous session with the given ID and token.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// IsAuthenticated returns true if the session carries an identity.
func (s *Session) IsAuthenticated() bool {
	return s.User != nil && s.User.ID != ""
}

// Authenticate attaches an identity snapshot to the session.
func (s *Session) Authenticate(user Identity) {
	s.User = &user
	s.dirty = true
}

// Flash replaces the pending message batch. Replace semantics match the
// surrounding application: each request cycle writes at most one batch.
func (s *Session) Flash(msgs ...Message) {
	s.Messages = msgs
	s.dirty = true
}

// PendingMessages returns the pending batch without clearing it.
// Used when building the render context; the render step clears after.
func (s *Session) PendingMessages() []Message {
	return s.Messages
}

// ClearMessages empties the pending batch.
// Marks the session dirty only if there was something to clear.
func (s *Session) ClearMessages() {
	if len(s.Messages) == 0 {
		return
	}
	s.Messages = nil
	s.dirty = true
}

// SetReturnTo records the path to redirect to after a successful login.
func (s *Session) SetReturnTo(path string) {
	s.ReturnTo = path
	s.dirty = true
}

// ConsumeReturnTo returns the recorded return path and deletes it.
// Returns empty string if none was set.
func (s *Session) ConsumeReturnTo() string {
	path := s.ReturnTo
	if path != "" {
		s.ReturnTo = ""
		s.dirty = true
	}
	return path
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// ClearDirty marks the session as clean (saved).
// Called by the session manager after persisting changes.
func (s *Session) ClearDirty() {
	s.dirty = false
}

// MarkDirty marks the session as needing to be saved.
func (s *Session) MarkDirty() {
	s.dirty = true
}

// IsNew returns true if the session was just created.
func (s *Session) IsNew() bool {
	return s.isNew
}

// ClearNew marks the session as no longer new.
// Called after the session is first persisted.
func (s *Session) ClearNew() {
	s.isNew = false
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
