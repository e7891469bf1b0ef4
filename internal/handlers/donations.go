package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ellarises/webapp/internal/middleware"
	"github.com/ellarises/webapp/internal/repository"
	"github.com/ellarises/webapp/internal/views"
	"github.com/ellarises/webapp/internal/web"
	"github.com/ellarises/webapp/pkg/sanitizer"
	"github.com/ellarises/webapp/pkg/session"
)

// DonationStore is the persistence surface the donation screens use.
type DonationStore interface {
	List(ctx context.Context) ([]repository.Donation, error)
	Get(ctx context.Context, id uuid.UUID) (*repository.Donation, error)
	Create(ctx context.Context, d repository.Donation) (*repository.Donation, error)
	Update(ctx context.Context, d repository.Donation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Donations manages recorded donations. The list is public; the form
// and mutation routes are manager-only with a bare 403. (The anonymous
// giving flow lives on /donate in the Pages handler.)
type Donations struct {
	donations DonationStore
	validate  *validator.Validate
}

// NewDonations creates the donations handler.
func NewDonations(donations DonationStore) *Donations {
	return &Donations{donations: donations, validate: validator.New()}
}

// Routes implements web.Handler. The list stays inside the same Route
// block as the gated routes: registering it on the parent mux would be
// overwritten by the mount chi creates for the subrouter.
func (h *Donations) Routes(r web.Router) {
	r.Route("/donations", func(r web.Router) {
		r.GET("/", h.list)
		r.Group(func(r web.Router) {
			r.Use(middleware.RequireAuth(), middleware.RequireManager(middleware.DenyBare))
			r.GET("/new", h.newForm)
			r.POST("/new", h.create)
			r.GET("/{id}/edit", h.editForm)
			r.POST("/{id}/update", h.update)
			r.POST("/{id}/delete", h.delete)
		})
	})
}

func (h *Donations) list(c web.Context) error {
	donations, err := h.donations.List(c.Context())
	if err != nil {
		c.LogError("failed to load donations", "error", err)
		flash(c, session.Error("Could not load donations. Please try again."))
		donations = nil
	}
	return c.Render(http.StatusOK, views.DonationList(page(c, "Donations"), donations))
}

func (h *Donations) newForm(c web.Context) error {
	return c.Render(http.StatusOK, views.DonationForm(page(c, "New Donation"), nil, "/donations/new"))
}

type donationRequest struct {
	DonorName     string  `validate:"required,max=200"`
	DonorEmail    string  `validate:"omitempty,email"`
	DonorPhone    string  `validate:"max=50"`
	PaymentMethod string  `validate:"required,oneof=card check cash"`
	Notes         string  `validate:"max=5000"`
	Amount        float64 `validate:"required,gt=0"`
}

func (h *Donations) parseForm(c web.Context) (repository.Donation, error) {
	amount, _ := strconv.ParseFloat(c.Form("amount"), 64)
	req := donationRequest{
		DonorName:     sanitizer.Strip(c.Form("donor_name")),
		DonorEmail:    sanitizer.Strip(c.Form("donor_email")),
		DonorPhone:    sanitizer.Strip(c.Form("donor_phone")),
		PaymentMethod: c.Form("payment_method"),
		Notes:         sanitizer.Strip(c.Form("notes")),
		Amount:        amount,
	}
	if err := h.validate.Struct(req); err != nil {
		return repository.Donation{}, err
	}
	return repository.Donation{
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		DonorPhone:    req.DonorPhone,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		DonationDate:  parseDate(c.Form("donation_date")),
		Notes:         req.Notes,
	}, nil
}

func (h *Donations) create(c web.Context) error {
	donation, err := h.parseForm(c)
	if err != nil {
		flash(c, session.Error("Please check the form: donor name, a positive amount, and a payment method are required."))
		return c.Redirect(http.StatusSeeOther, "/donations/new")
	}
	if _, err := h.donations.Create(c.Context(), donation); err != nil {
		c.LogError("failed to create donation", "error", err)
		flash(c, session.Error("Could not record the donation."))
		return c.Redirect(http.StatusSeeOther, "/donations/new")
	}
	flash(c, session.Success("Donation recorded."))
	return c.Redirect(http.StatusSeeOther, "/donations")
}

func (h *Donations) editForm(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	donation, err := h.donations.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "donation not found")
		}
		return c.Error(http.StatusInternalServerError, "failed to load donation", web.WithError(err))
	}
	return c.Render(http.StatusOK, views.DonationForm(page(c, "Edit Donation"), donation,
		"/donations/"+id.String()+"/update"))
}

func (h *Donations) update(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	donation, err := h.parseForm(c)
	if err != nil {
		flash(c, session.Error("Please check the form and try again."))
		return c.Redirect(http.StatusSeeOther, "/donations/"+id.String()+"/edit")
	}
	donation.ID = id
	if err := h.donations.Update(c.Context(), donation); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "donation not found")
		}
		c.LogError("failed to update donation", "error", err)
		flash(c, session.Error("Could not update the donation."))
		return c.Redirect(http.StatusSeeOther, "/donations/"+id.String()+"/edit")
	}
	flash(c, session.Success("Donation updated."))
	return c.Redirect(http.StatusSeeOther, "/donations")
}

func (h *Donations) delete(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.donations.Delete(c.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.LogError("failed to delete donation", "error", err)
		flash(c, session.Error("Could not delete the donation."))
		return c.Redirect(http.StatusSeeOther, "/donations")
	}
	flash(c, session.Success("Donation deleted."))
	return c.Redirect(http.StatusSeeOther, "/donations")
}
