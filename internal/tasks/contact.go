package tasks

import (
	"context"

	"github.com/ellarises/webapp/pkg/mailer"
)

// ContactNotificationName identifies the contact notification task.
const ContactNotificationName = "contact_notification"

// ContactNotificationPayload carries the submitted contact form fields.
type ContactNotificationPayload struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// ContactNotification forwards a contact form submission to the staff
// inbox so nobody has to poll the admin screens.
type ContactNotification struct {
	mail     *mailer.Mailer
	notifyTo string
}

// NewContactNotification creates the notification task. notifyTo is the
// staff address that receives submissions; when empty the task is a no-op.
func NewContactNotification(mail *mailer.Mailer, notifyTo string) *ContactNotification {
	return &ContactNotification{mail: mail, notifyTo: notifyTo}
}

// Name implements the task contract.
func (t *ContactNotification) Name() string { return ContactNotificationName }

// Handle emails the submission to the staff inbox.
func (t *ContactNotification) Handle(ctx context.Context, p ContactNotificationPayload) error {
	if t.notifyTo == "" {
		return nil
	}

	return t.mail.Send(ctx, mailer.SendParams{
		To:       t.notifyTo,
		Template: "contact_notification.md",
		ReplyTo:  p.Email,
		Data: map[string]any{
			"Name":    p.Name,
			"Email":   p.Email,
			"Message": p.Message,
		},
	})
}
