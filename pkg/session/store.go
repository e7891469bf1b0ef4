package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence.
// Implementations handle storage-specific operations like
// cache lookups or in-memory maps.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its token.
	// Returns ErrNotFound if the session doesn't exist.
	// Returns ErrExpired if the session has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves changes to an existing session.
	// Implementations must handle token rotation: the session may carry
	// a different token than the one it was stored under.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by its ID.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes all sessions for a user.
	// Used when an account is deleted or demoted.
	DeleteByUserID(ctx context.Context, userID string) error

	// Touch updates the LastActiveAt timestamp without a full session update.
	Touch(ctx context.Context, id string, lastActiveAt time.Time) error
}
