package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Event is a scheduled program activity.
type Event struct {
	ID          uuid.UUID `db:"id"`
	EventName   string    `db:"event_name"`
	EventType   string    `db:"event_type"`
	EventDate   time.Time `db:"event_date"`
	Location    string    `db:"location"`
	Description string    `db:"description"`
}

// EventRepository stores events.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates an event repository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// List returns all events, most recent first.
func (r *EventRepository) List(ctx context.Context) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_name, event_type, event_date, location, description
		FROM events
		ORDER BY event_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[Event])
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListUpcoming returns events on or after the given date, soonest first.
func (r *EventRepository) ListUpcoming(ctx context.Context, from time.Time) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_name, event_type, event_date, location, description
		FROM events
		WHERE event_date >= $1
		ORDER BY event_date
	`, from)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[Event])
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

// Get returns a single event by ID.
func (r *EventRepository) Get(ctx context.Context, id uuid.UUID) (*Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_name, event_type, event_date, location, description
		FROM events
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	e, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Event])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// Create inserts a new event and returns it with the generated ID.
func (r *EventRepository) Create(ctx context.Context, e Event) (*Event, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (event_name, event_type, event_date, location, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, e.EventName, e.EventType, e.EventDate, e.Location, e.Description)
	if err := row.Scan(&e.ID); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &e, nil
}

// Update modifies an existing event.
func (r *EventRepository) Update(ctx context.Context, e Event) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE events
		SET event_name = $2, event_type = $3, event_date = $4,
		    location = $5, description = $6
		WHERE id = $1
	`, e.ID, e.EventName, e.EventType, e.EventDate, e.Location, e.Description)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event by ID.
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
