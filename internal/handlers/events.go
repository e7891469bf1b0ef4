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

// EventStore is the persistence surface the event screens use. The
// survey form also reads from it for its event dropdown.
type EventStore interface {
	List(ctx context.Context) ([]repository.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*repository.Event, error)
	Create(ctx context.Context, e repository.Event) (*repository.Event, error)
	Update(ctx context.Context, e repository.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Events manages program events. The list is public; the form and
// mutation routes are manager-only with a bare 403.
type Events struct {
	events   EventStore
	validate *validator.Validate
}

// NewEvents creates the events handler.
func NewEvents(events EventStore) *Events {
	return &Events{events: events, validate: validator.New()}
}

// Routes implements web.Handler. The list shares the Route block with
// the gated routes; see Donations.Routes for the registration note.
func (h *Events) Routes(r web.Router) {
	r.Route("/events", func(r web.Router) {
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

func (h *Events) list(c web.Context) error {
	events, err := h.events.List(c.Context())
	if err != nil {
		c.LogError("failed to load events", "error", err)
		flash(c, session.Error("Could not load events. Please try again."))
		events = nil
	}
	return c.Render(http.StatusOK, views.EventList(page(c, "Events"), events))
}

func (h *Events) newForm(c web.Context) error {
	return c.Render(http.StatusOK, views.EventForm(page(c, "New Event"), nil, "/events/new"))
}

type eventRequest struct {
	EventName   string `validate:"required,max=200"`
	EventType   string `validate:"max=100"`
	Location    string `validate:"max=200"`
	Description string `validate:"max=5000"`
}

func (h *Events) parseForm(c web.Context) (repository.Event, error) {
	req := eventRequest{
		EventName:   sanitizer.Strip(c.Form("event_name")),
		EventType:   sanitizer.Strip(c.Form("event_type")),
		Location:    sanitizer.Strip(c.Form("location")),
		Description: sanitizer.Strip(c.Form("description")),
	}
	if err := h.validate.Struct(req); err != nil {
		return repository.Event{}, err
	}
	return repository.Event{
		EventName:   req.EventName,
		EventType:   req.EventType,
		EventDate:   parseDate(c.Form("event_date")),
		Location:    req.Location,
		Description: req.Description,
	}, nil
}

func (h *Events) create(c web.Context) error {
	event, err := h.parseForm(c)
	if err != nil {
		flash(c, session.Error("Please check the form: the event name is required."))
		return c.Redirect(http.StatusSeeOther, "/events/new")
	}
	if _, err := h.events.Create(c.Context(), event); err != nil {
		c.LogError("failed to create event", "error", err)
		flash(c, session.Error("Could not create the event."))
		return c.Redirect(http.StatusSeeOther, "/events/new")
	}
	flash(c, session.Success("Event created."))
	return c.Redirect(http.StatusSeeOther, "/events")
}

func (h *Events) editForm(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	event, err := h.events.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "event not found")
		}
		return c.Error(http.StatusInternalServerError, "failed to load event", web.WithError(err))
	}
	return c.Render(http.StatusOK, views.EventForm(page(c, "Edit Event"), event,
		"/events/"+id.String()+"/update"))
}

func (h *Events) update(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	event, err := h.parseForm(c)
	if err != nil {
		flash(c, session.Error("Please check the form and try again."))
		return c.Redirect(http.StatusSeeOther, "/events/"+id.String()+"/edit")
	}
	event.ID = id
	if err := h.events.Update(c.Context(), event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "event not found")
		}
		c.LogError("failed to update event", "error", err)
		flash(c, session.Error("Could not update the event."))
		return c.Redirect(http.StatusSeeOther, "/events/"+id.String()+"/edit")
	}
	flash(c, session.Success("Event updated."))
	return c.Redirect(http.StatusSeeOther, "/events")
}

func (h *Events) delete(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.events.Delete(c.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.LogError("failed to delete event", "error", err)
		flash(c, session.Error("Could not delete the event."))
		return c.Redirect(http.StatusSeeOther, "/events")
	}
	flash(c, session.Success("Event deleted."))
	return c.Redirect(http.StatusSeeOther, "/events")
}
