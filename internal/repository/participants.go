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

// Participant is a person enrolled in one of the programs.
type Participant struct {
	ID             uuid.UUID `db:"id"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	Program        string    `db:"program"`
	EnrollmentDate time.Time `db:"enrollment_date"`
}

// FullName returns the participant's display name.
func (p Participant) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ParticipantRepository stores program participants.
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository creates a participant repository.
func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// List returns all participants ordered by last name.
func (r *ParticipantRepository) List(ctx context.Context) ([]Participant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, email, phone, program, enrollment_date
		FROM participants
		ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	participants, err := pgx.CollectRows(rows, pgx.RowToStructByName[Participant])
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

// Get returns a single participant by ID.
func (r *ParticipantRepository) Get(ctx context.Context, id uuid.UUID) (*Participant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, email, phone, program, enrollment_date
		FROM participants
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get participant: %w", err)
	}
	p, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Participant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return &p, nil
}

// Create inserts a new participant and returns it with the generated ID.
func (r *ParticipantRepository) Create(ctx context.Context, p Participant) (*Participant, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO participants (first_name, last_name, email, phone, program, enrollment_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.FirstName, p.LastName, p.Email, p.Phone, p.Program, p.EnrollmentDate)
	if err := row.Scan(&p.ID); err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return &p, nil
}

// Update modifies an existing participant.
func (r *ParticipantRepository) Update(ctx context.Context, p Participant) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE participants
		SET first_name = $2, last_name = $3, email = $4, phone = $5,
		    program = $6, enrollment_date = $7
		WHERE id = $1
	`, p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.Program, p.EnrollmentDate)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a participant by ID.
func (r *ParticipantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
