package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactMessage is a note submitted through the public contact form.
type ContactMessage struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

// ContactMessageRepository stores contact form submissions.
type ContactMessageRepository struct {
	pool *pgxpool.Pool
}

// NewContactMessageRepository creates a contact message repository.
func NewContactMessageRepository(pool *pgxpool.Pool) *ContactMessageRepository {
	return &ContactMessageRepository{pool: pool}
}

// Create inserts a new contact message and returns it with the generated ID.
func (r *ContactMessageRepository) Create(ctx context.Context, m ContactMessage) (*ContactMessage, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, m.Name, m.Email, m.Message)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return &m, nil
}

// List returns all contact messages, newest first.
func (r *ContactMessageRepository) List(ctx context.Context) ([]ContactMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	messages, err := pgx.CollectRows(rows, pgx.RowToStructByName[ContactMessage])
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}
