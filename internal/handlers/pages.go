package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/ellarises/webapp/internal/middleware"
	"github.com/ellarises/webapp/internal/repository"
	"github.com/ellarises/webapp/internal/tasks"
	"github.com/ellarises/webapp/internal/views"
	"github.com/ellarises/webapp/internal/web"
	"github.com/ellarises/webapp/pkg/db"
	"github.com/ellarises/webapp/pkg/job"
	"github.com/ellarises/webapp/pkg/sanitizer"
	"github.com/ellarises/webapp/pkg/session"
)

// Pages serves the public marketing pages, the dashboard, and the two
// anonymous submission flows (contact, donate).
type Pages struct {
	contacts  *repository.ContactMessageRepository
	donations *repository.DonationRepository
	validate  *validator.Validate
}

// NewPages creates the pages handler.
func NewPages(contacts *repository.ContactMessageRepository, donations *repository.DonationRepository) *Pages {
	return &Pages{
		contacts:  contacts,
		donations: donations,
		validate:  validator.New(),
	}
}

// Routes implements web.Handler.
func (h *Pages) Routes(r web.Router) {
	r.GET("/", h.landing)
	r.GET("/about", h.about)
	r.GET("/contact", h.contactForm)
	r.POST("/contact", h.contact)
	r.GET("/donate", h.donateForm)
	r.POST("/donate", h.donate)
	r.GET("/teapot", h.teapot)
	r.GET("/dashboard", h.dashboard, middleware.RequireAuth())
}

func (h *Pages) landing(c web.Context) error {
	return c.Render(http.StatusOK, views.Landing(page(c, "Welcome")))
}

func (h *Pages) about(c web.Context) error {
	return c.Render(http.StatusOK, views.About(page(c, "About")))
}

func (h *Pages) contactForm(c web.Context) error {
	return c.Render(http.StatusOK, views.Contact(page(c, "Contact")))
}

func (h *Pages) donateForm(c web.Context) error {
	return c.Render(http.StatusOK, views.Donate(page(c, "Donate")))
}

// teapot is a fixed diagnostic endpoint; the status code is the point.
func (h *Pages) teapot(c web.Context) error {
	return c.Render(http.StatusTeapot, views.Teapot(page(c, "Teapot")))
}

func (h *Pages) dashboard(c web.Context) error {
	return c.Render(http.StatusOK, views.Dashboard(page(c, "Dashboard")))
}

type contactRequest struct {
	Name    string `validate:"required,max=200"`
	Email   string `validate:"required,email"`
	Message string `validate:"required,max=5000"`
}

// contact stores the submission and queues the staff notification email.
func (h *Pages) contact(c web.Context) error {
	req := contactRequest{
		Name:    sanitizer.Strip(c.Form("name")),
		Email:   sanitizer.Strip(c.Form("email")),
		Message: sanitizer.Strip(c.Form("message")),
	}
	if err := h.validate.Struct(req); err != nil {
		flash(c, session.Error("Please fill in your name, a valid email, and a message."))
		return c.Redirect(http.StatusSeeOther, "/contact")
	}

	if _, err := h.contacts.Create(c.Context(), repository.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}); err != nil {
		c.LogError("failed to store contact message", "error", err)
		flash(c, session.Error("Something went wrong. Please try again."))
		return c.Redirect(http.StatusSeeOther, "/contact")
	}

	if err := c.Enqueue(tasks.ContactNotificationName, tasks.ContactNotificationPayload{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}, job.InQueue(tasks.MailQueue), job.MaxAttempts(5)); err != nil {
		// The message is stored; notification delivery is best-effort.
		c.LogError("failed to enqueue contact notification", "error", err)
	}

	flash(c, session.Success("Thanks for reaching out! We'll get back to you soon."))
	return c.Redirect(http.StatusSeeOther, "/contact")
}

type donateRequest struct {
	DonorName     string  `validate:"required,max=200"`
	DonorEmail    string  `validate:"required,email"`
	DonorPhone    string  `validate:"max=50"`
	PaymentMethod string  `validate:"required,oneof=card check cash"`
	Notes         string  `validate:"max=5000"`
	Amount        float64 `validate:"required,gt=0"`
}

// donate records a public donation and enqueues the receipt in the same
// transaction, so a receipt job exists only for committed donations.
func (h *Pages) donate(c web.Context) error {
	amount, _ := strconv.ParseFloat(c.Form("amount"), 64)
	req := donateRequest{
		DonorName:     sanitizer.Strip(c.Form("donor_name")),
		DonorEmail:    sanitizer.Strip(c.Form("donor_email")),
		DonorPhone:    sanitizer.Strip(c.Form("donor_phone")),
		PaymentMethod: c.Form("payment_method"),
		Notes:         sanitizer.Strip(c.Form("notes")),
		Amount:        amount,
	}
	if err := h.validate.Struct(req); err != nil {
		flash(c, session.Error("Please check the donation form and try again."))
		return c.Redirect(http.StatusSeeOther, "/donate")
	}

	err := db.WithTx(c.Context(), h.donations.Pool(), func(tx pgx.Tx) error {
		donation, err := h.donations.CreateTx(c.Context(), tx, repository.Donation{
			DonorName:     req.DonorName,
			DonorEmail:    req.DonorEmail,
			DonorPhone:    req.DonorPhone,
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
			DonationDate:  time.Now(),
			Notes:         req.Notes,
		})
		if err != nil {
			return err
		}
		// One receipt per donation, even if the form is resubmitted.
		return c.EnqueueTx(tx, tasks.DonationReceiptName, tasks.DonationReceiptPayload{
			DonationID: donation.ID,
		},
			job.InQueue(tasks.MailQueue),
			job.UniqueFor(24*time.Hour),
			job.UniqueKey(donation.ID.String()),
		)
	})
	if err != nil {
		c.LogError("failed to record donation", "error", err)
		flash(c, session.Error("We couldn't process your donation. Please try again."))
		return c.Redirect(http.StatusSeeOther, "/donate")
	}

	flash(c, session.Success("Thank you for your generous gift!"))
	return c.Redirect(http.StatusSeeOther, "/donate")
}
