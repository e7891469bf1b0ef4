package tasks

import (
	"context"
	"log/slog"
)

// SessionSweeper removes stale session index entries.
type SessionSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SessionSweep periodically cleans up orphaned session index entries
// left behind when Redis expires a session key before its index.
type SessionSweep struct {
	store SessionSweeper
	log   *slog.Logger
}

// NewSessionSweep creates the sweep task.
func NewSessionSweep(store SessionSweeper, log *slog.Logger) *SessionSweep {
	return &SessionSweep{store: store, log: log}
}

// Name implements the scheduled task contract.
func (t *SessionSweep) Name() string { return "session_sweep" }

// Schedule runs the sweep at ten past every hour.
func (t *SessionSweep) Schedule() string { return "10 * * * *" }

// Handle runs one sweep pass.
func (t *SessionSweep) Handle(ctx context.Context) error {
	removed, err := t.store.Sweep(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		t.log.InfoContext(ctx, "swept stale session entries", "removed", removed)
	}
	return nil
}
