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

// Donation records a gift to the organization.
type Donation struct {
	ID            uuid.UUID `db:"id"`
	DonorName     string    `db:"donor_name"`
	DonorEmail    string    `db:"donor_email"`
	DonorPhone    string    `db:"donor_phone"`
	Amount        float64   `db:"amount"`
	PaymentMethod string    `db:"payment_method"`
	DonationDate  time.Time `db:"donation_date"`
	Notes         string    `db:"notes"`
}

// DonationRepository stores donations.
type DonationRepository struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a donation repository.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

// Pool exposes the underlying pool for transactional flows.
func (r *DonationRepository) Pool() *pgxpool.Pool {
	return r.pool
}

// List returns all donations, most recent first.
func (r *DonationRepository) List(ctx context.Context) ([]Donation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, donor_name, donor_email, donor_phone, amount,
		       payment_method, donation_date, notes
		FROM donations
		ORDER BY donation_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	donations, err := pgx.CollectRows(rows, pgx.RowToStructByName[Donation])
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return donations, nil
}

// Get returns a single donation by ID.
func (r *DonationRepository) Get(ctx context.Context, id uuid.UUID) (*Donation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, donor_name, donor_email, donor_phone, amount,
		       payment_method, donation_date, notes
		FROM donations
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get donation: %w", err)
	}
	d, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Donation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get donation: %w", err)
	}
	return &d, nil
}

// Create inserts a new donation and returns it with the generated ID.
func (r *DonationRepository) Create(ctx context.Context, d Donation) (*Donation, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO donations (donor_name, donor_email, donor_phone, amount,
		                       payment_method, donation_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, d.DonorName, d.DonorEmail, d.DonorPhone, d.Amount,
		d.PaymentMethod, d.DonationDate, d.Notes)
	if err := row.Scan(&d.ID); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	return &d, nil
}

// CreateTx inserts a donation within an existing transaction.
// Used by the public donation flow so the record and its receipt job
// commit atomically.
func (r *DonationRepository) CreateTx(ctx context.Context, tx pgx.Tx, d Donation) (*Donation, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO donations (donor_name, donor_email, donor_phone, amount,
		                       payment_method, donation_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, d.DonorName, d.DonorEmail, d.DonorPhone, d.Amount,
		d.PaymentMethod, d.DonationDate, d.Notes)
	if err := row.Scan(&d.ID); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	return &d, nil
}

// Update modifies an existing donation.
func (r *DonationRepository) Update(ctx context.Context, d Donation) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE donations
		SET donor_name = $2, donor_email = $3, donor_phone = $4, amount = $5,
		    payment_method = $6, donation_date = $7, notes = $8
		WHERE id = $1
	`, d.ID, d.DonorName, d.DonorEmail, d.DonorPhone, d.Amount,
		d.PaymentMethod, d.DonationDate, d.Notes)
	if err != nil {
		return fmt.Errorf("update donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a donation by ID.
func (r *DonationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM donations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
