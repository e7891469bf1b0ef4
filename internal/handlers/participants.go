package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ellarises/webapp/internal/middleware"
	"github.com/ellarises/webapp/internal/repository"
	"github.com/ellarises/webapp/internal/views"
	"github.com/ellarises/webapp/internal/web"
	"github.com/ellarises/webapp/pkg/sanitizer"
	"github.com/ellarises/webapp/pkg/session"
)

// ParticipantStore is the persistence surface the participant screens
// use. The survey and milestone forms also read from it for dropdowns.
type ParticipantStore interface {
	List(ctx context.Context) ([]repository.Participant, error)
	Get(ctx context.Context, id uuid.UUID) (*repository.Participant, error)
	Create(ctx context.Context, p repository.Participant) (*repository.Participant, error)
	Update(ctx context.Context, p repository.Participant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Participants manages program participants. The list is public; the
// form and mutation routes are manager-only with a bare 403.
type Participants struct {
	participants ParticipantStore
	validate     *validator.Validate
}

// NewParticipants creates the participants handler.
func NewParticipants(participants ParticipantStore) *Participants {
	return &Participants{participants: participants, validate: validator.New()}
}

// Routes implements web.Handler. The list shares the Route block with
// the gated routes; see Donations.Routes for the registration note.
func (h *Participants) Routes(r web.Router) {
	r.Route("/participants", func(r web.Router) {
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

func (h *Participants) list(c web.Context) error {
	participants, err := h.participants.List(c.Context())
	if err != nil {
		c.LogError("failed to load participants", "error", err)
		flash(c, session.Error("Could not load participants. Please try again."))
		participants = nil
	}
	return c.Render(http.StatusOK, views.ParticipantList(page(c, "Participants"), participants))
}

func (h *Participants) newForm(c web.Context) error {
	return c.Render(http.StatusOK, views.ParticipantForm(page(c, "New Participant"), nil, "/participants/new"))
}

type participantRequest struct {
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"required,max=100"`
	Email     string `validate:"omitempty,email"`
	Phone     string `validate:"max=50"`
	Program   string `validate:"max=200"`
}

func (h *Participants) parseForm(c web.Context) (repository.Participant, error) {
	req := participantRequest{
		FirstName: sanitizer.Strip(c.Form("first_name")),
		LastName:  sanitizer.Strip(c.Form("last_name")),
		Email:     sanitizer.Strip(c.Form("email")),
		Phone:     sanitizer.Strip(c.Form("phone")),
		Program:   sanitizer.Strip(c.Form("program")),
	}
	if err := h.validate.Struct(req); err != nil {
		return repository.Participant{}, err
	}
	return repository.Participant{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Program:        req.Program,
		EnrollmentDate: parseDate(c.Form("enrollment_date")),
	}, nil
}

func (h *Participants) create(c web.Context) error {
	participant, err := h.parseForm(c)
	if err != nil {
		flash(c, session.Error("Please check the form: first and last name are required."))
		return c.Redirect(http.StatusSeeOther, "/participants/new")
	}
	if _, err := h.participants.Create(c.Context(), participant); err != nil {
		c.LogError("failed to create participant", "error", err)
		flash(c, session.Error("Could not create the participant."))
		return c.Redirect(http.StatusSeeOther, "/participants/new")
	}
	flash(c, session.Success("Participant added."))
	return c.Redirect(http.StatusSeeOther, "/participants")
}

func (h *Participants) editForm(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	participant, err := h.participants.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "participant not found")
		}
		return c.Error(http.StatusInternalServerError, "failed to load participant", web.WithError(err))
	}
	return c.Render(http.StatusOK, views.ParticipantForm(page(c, "Edit Participant"), participant,
		"/participants/"+id.String()+"/update"))
}

func (h *Participants) update(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	participant, err := h.parseForm(c)
	if err != nil {
		flash(c, session.Error("Please check the form and try again."))
		return c.Redirect(http.StatusSeeOther, "/participants/"+id.String()+"/edit")
	}
	participant.ID = id
	if err := h.participants.Update(c.Context(), participant); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "participant not found")
		}
		c.LogError("failed to update participant", "error", err)
		flash(c, session.Error("Could not update the participant."))
		return c.Redirect(http.StatusSeeOther, "/participants/"+id.String()+"/edit")
	}
	flash(c, session.Success("Participant updated."))
	return c.Redirect(http.StatusSeeOther, "/participants")
}

func (h *Participants) delete(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.participants.Delete(c.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.LogError("failed to delete participant", "error", err)
		flash(c, session.Error("Could not delete the participant."))
		return c.Redirect(http.StatusSeeOther, "/participants")
	}
	flash(c, session.Success("Participant removed."))
	return c.Redirect(http.StatusSeeOther, "/participants")
}
