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

// Milestone records a participant's achievement.
type Milestone struct {
	ID              uuid.UUID  `db:"id"`
	MilestoneName   string     `db:"milestone_name"`
	MilestoneType   string     `db:"milestone_type"`
	ParticipantID   *uuid.UUID `db:"participant_id"`
	AchievementDate time.Time  `db:"achievement_date"`
	Status          string     `db:"status"`
	Description     string     `db:"description"`
}

// MilestoneRepository stores participant milestones.
type MilestoneRepository struct {
	pool *pgxpool.Pool
}

// NewMilestoneRepository creates a milestone repository.
func NewMilestoneRepository(pool *pgxpool.Pool) *MilestoneRepository {
	return &MilestoneRepository{pool: pool}
}

// List returns all milestones, most recent first.
func (r *MilestoneRepository) List(ctx context.Context) ([]Milestone, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, milestone_name, milestone_type, participant_id,
		       achievement_date, status, description
		FROM milestones
		ORDER BY achievement_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	milestones, err := pgx.CollectRows(rows, pgx.RowToStructByName[Milestone])
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	return milestones, nil
}

// Get returns a single milestone by ID.
func (r *MilestoneRepository) Get(ctx context.Context, id uuid.UUID) (*Milestone, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, milestone_name, milestone_type, participant_id,
		       achievement_date, status, description
		FROM milestones
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get milestone: %w", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Milestone])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get milestone: %w", err)
	}
	return &m, nil
}

// Create inserts a new milestone and returns it with the generated ID.
func (r *MilestoneRepository) Create(ctx context.Context, m Milestone) (*Milestone, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO milestones (milestone_name, milestone_type, participant_id,
		                        achievement_date, status, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, m.MilestoneName, m.MilestoneType, m.ParticipantID,
		m.AchievementDate, m.Status, m.Description)
	if err := row.Scan(&m.ID); err != nil {
		return nil, fmt.Errorf("create milestone: %w", err)
	}
	return &m, nil
}

// Update modifies an existing milestone.
func (r *MilestoneRepository) Update(ctx context.Context, m Milestone) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE milestones
		SET milestone_name = $2, milestone_type = $3, participant_id = $4,
		    achievement_date = $5, status = $6, description = $7
		WHERE id = $1
	`, m.ID, m.MilestoneName, m.MilestoneType, m.ParticipantID,
		m.AchievementDate, m.Status, m.Description)
	if err != nil {
		return fmt.Errorf("update milestone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a milestone by ID.
func (r *MilestoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM milestones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete milestone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
