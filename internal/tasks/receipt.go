// Package tasks holds the background jobs run by the River worker pool.
package tasks

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ellarises/webapp/internal/repository"
	"github.com/ellarises/webapp/pkg/mailer"
)

// MailQueue isolates outbound email from the default queue, so a mail
// provider outage cannot starve other background work.
const MailQueue = "mail"

// DonationReceiptName identifies the receipt task in the queue.
const DonationReceiptName = "donation_receipt"

// DonationReceiptPayload references the donation to thank the donor for.
type DonationReceiptPayload struct {
	DonationID uuid.UUID `json:"donation_id" validate:"required"`
}

// DonationReceipt emails a thank-you receipt after a donation is recorded.
// Enqueued transactionally with the donation insert, so a receipt job
// exists only for committed donations.
type DonationReceipt struct {
	donations *repository.DonationRepository
	mail      *mailer.Mailer
}

// NewDonationReceipt creates the receipt task.
func NewDonationReceipt(donations *repository.DonationRepository, mail *mailer.Mailer) *DonationReceipt {
	return &DonationReceipt{donations: donations, mail: mail}
}

// Name implements the task contract.
func (t *DonationReceipt) Name() string { return DonationReceiptName }

// Handle looks up the donation and sends the receipt email.
func (t *DonationReceipt) Handle(ctx context.Context, p DonationReceiptPayload) error {
	donation, err := t.donations.Get(ctx, p.DonationID)
	if err != nil {
		return fmt.Errorf("donation receipt: %w", err)
	}
	if donation.DonorEmail == "" {
		// Nothing to send for anonymous gifts.
		return nil
	}

	return t.mail.Send(ctx, mailer.SendParams{
		To:       donation.DonorEmail,
		Template: "donation_receipt.md",
		Data: map[string]any{
			"DonorName": donation.DonorName,
			"Amount":    fmt.Sprintf("%.2f", donation.Amount),
			"Date":      donation.DonationDate.Format("January 2, 2006"),
		},
	})
}
