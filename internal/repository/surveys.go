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

// Survey holds participant feedback for an event.
type Survey struct {
	ID                  uuid.UUID  `db:"id"`
	ParticipantID       *uuid.UUID `db:"participant_id"`
	EventID             *uuid.UUID `db:"event_id"`
	SatisfactionScore   int        `db:"satisfaction_score"`
	UsefulnessScore     int        `db:"usefulness_score"`
	RecommendationScore int        `db:"recommendation_score"`
	Comments            string     `db:"comments"`
	SurveyDate          time.Time  `db:"survey_date"`
}

// SurveyRepository stores event feedback surveys.
type SurveyRepository struct {
	pool *pgxpool.Pool
}

// NewSurveyRepository creates a survey repository.
func NewSurveyRepository(pool *pgxpool.Pool) *SurveyRepository {
	return &SurveyRepository{pool: pool}
}

// List returns all surveys, most recent first.
func (r *SurveyRepository) List(ctx context.Context) ([]Survey, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, participant_id, event_id, satisfaction_score,
		       usefulness_score, recommendation_score, comments, survey_date
		FROM surveys
		ORDER BY survey_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	surveys, err := pgx.CollectRows(rows, pgx.RowToStructByName[Survey])
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	return surveys, nil
}

// Get returns a single survey by ID.
func (r *SurveyRepository) Get(ctx context.Context, id uuid.UUID) (*Survey, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, participant_id, event_id, satisfaction_score,
		       usefulness_score, recommendation_score, comments, survey_date
		FROM surveys
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}
	s, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Survey])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return &s, nil
}

// Create inserts a new survey and returns it with the generated ID.
func (r *SurveyRepository) Create(ctx context.Context, s Survey) (*Survey, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO surveys (participant_id, event_id, satisfaction_score,
		                     usefulness_score, recommendation_score, comments, survey_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, s.ParticipantID, s.EventID, s.SatisfactionScore,
		s.UsefulnessScore, s.RecommendationScore, s.Comments, s.SurveyDate)
	if err := row.Scan(&s.ID); err != nil {
		return nil, fmt.Errorf("create survey: %w", err)
	}
	return &s, nil
}

// Update modifies an existing survey.
func (r *SurveyRepository) Update(ctx context.Context, s Survey) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE surveys
		SET participant_id = $2, event_id = $3, satisfaction_score = $4,
		    usefulness_score = $5, recommendation_score = $6,
		    comments = $7, survey_date = $8
		WHERE id = $1
	`, s.ID, s.ParticipantID, s.EventID, s.SatisfactionScore,
		s.UsefulnessScore, s.RecommendationScore, s.Comments, s.SurveyDate)
	if err != nil {
		return fmt.Errorf("update survey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a survey by ID.
func (r *SurveyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM surveys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
