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

// MilestoneStore is the persistence surface the milestone screens use.
type MilestoneStore interface {
	List(ctx context.Context) ([]repository.Milestone, error)
	Get(ctx context.Context, id uuid.UUID) (*repository.Milestone, error)
	Create(ctx context.Context, m repository.Milestone) (*repository.Milestone, error)
	Update(ctx context.Context, m repository.Milestone) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Milestones manages participant milestones. The list is public; the
// form and mutation routes are manager-only with a bare 403.
type Milestones struct {
	milestones   MilestoneStore
	participants ParticipantStore
	validate     *validator.Validate
}

// NewMilestones creates the milestones handler.
func NewMilestones(milestones MilestoneStore, participants ParticipantStore) *Milestones {
	return &Milestones{
		milestones:   milestones,
		participants: participants,
		validate:     validator.New(),
	}
}

// Routes implements web.Handler. The list shares the Route block with
// the gated routes; see Donations.Routes for the registration note.
func (h *Milestones) Routes(r web.Router) {
	r.Route("/milestones", func(r web.Router) {
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

func (h *Milestones) list(c web.Context) error {
	milestones, err := h.milestones.List(c.Context())
	if err != nil {
		c.LogError("failed to load milestones", "error", err)
		flash(c, session.Error("Could not load milestones. Please try again."))
		milestones = nil
	}
	return c.Render(http.StatusOK, views.MilestoneList(page(c, "Milestones"), milestones))
}

func (h *Milestones) loadParticipants(c web.Context) []repository.Participant {
	participants, err := h.participants.List(c.Context())
	if err != nil {
		c.LogError("failed to load participants for milestone form", "error", err)
	}
	return participants
}

func (h *Milestones) newForm(c web.Context) error {
	return c.Render(http.StatusOK, views.MilestoneForm(page(c, "New Milestone"), nil,
		h.loadParticipants(c), "/milestones/new"))
}

type milestoneRequest struct {
	MilestoneName string `validate:"required,max=200"`
	MilestoneType string `validate:"max=100"`
	Status        string `validate:"required,oneof=pending in_progress achieved"`
	Description   string `validate:"max=5000"`
}

func (h *Milestones) parseForm(c web.Context) (repository.Milestone, error) {
	req := milestoneRequest{
		MilestoneName: sanitizer.Strip(c.Form("milestone_name")),
		MilestoneType: sanitizer.Strip(c.Form("milestone_type")),
		Status:        c.Form("status"),
		Description:   sanitizer.Strip(c.Form("description")),
	}
	if err := h.validate.Struct(req); err != nil {
		return repository.Milestone{}, err
	}
	return repository.Milestone{
		MilestoneName:   req.MilestoneName,
		MilestoneType:   req.MilestoneType,
		ParticipantID:   parseUUIDPtr(c.Form("participant_id")),
		AchievementDate: parseDate(c.Form("achievement_date")),
		Status:          req.Status,
		Description:     req.Description,
	}, nil
}

func (h *Milestones) create(c web.Context) error {
	milestone, err := h.parseForm(c)
	if err != nil {
		flash(c, session.Error("Please check the form: the milestone name and a valid status are required."))
		return c.Redirect(http.StatusSeeOther, "/milestones/new")
	}
	if _, err := h.milestones.Create(c.Context(), milestone); err != nil {
		c.LogError("failed to create milestone", "error", err)
		flash(c, session.Error("Could not create the milestone."))
		return c.Redirect(http.StatusSeeOther, "/milestones/new")
	}
	flash(c, session.Success("Milestone recorded."))
	return c.Redirect(http.StatusSeeOther, "/milestones")
}

func (h *Milestones) editForm(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	milestone, err := h.milestones.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "milestone not found")
		}
		return c.Error(http.StatusInternalServerError, "failed to load milestone", web.WithError(err))
	}
	return c.Render(http.StatusOK, views.MilestoneForm(page(c, "Edit Milestone"), milestone,
		h.loadParticipants(c), "/milestones/"+id.String()+"/update"))
}

func (h *Milestones) update(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	milestone, err := h.parseForm(c)
	if err != nil {
		flash(c, session.Error("Please check the form and try again."))
		return c.Redirect(http.StatusSeeOther, "/milestones/"+id.String()+"/edit")
	}
	milestone.ID = id
	if err := h.milestones.Update(c.Context(), milestone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "milestone not found")
		}
		c.LogError("failed to update milestone", "error", err)
		flash(c, session.Error("Could not update the milestone."))
		return c.Redirect(http.StatusSeeOther, "/milestones/"+id.String()+"/edit")
	}
	flash(c, session.Success("Milestone updated."))
	return c.Redirect(http.StatusSeeOther, "/milestones")
}

func (h *Milestones) delete(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.milestones.Delete(c.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.LogError("failed to delete milestone", "error", err)
		flash(c, session.Error("Could not delete the milestone."))
		return c.Redirect(http.StatusSeeOther, "/milestones")
	}
	flash(c, session.Success("Milestone deleted."))
	return c.Redirect(http.StatusSeeOther, "/milestones")
}
