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

// SurveyStore is the persistence surface the survey screens use.
type SurveyStore interface {
	List(ctx context.Context) ([]repository.Survey, error)
	Get(ctx context.Context, id uuid.UUID) (*repository.Survey, error)
	Create(ctx context.Context, s repository.Survey) (*repository.Survey, error)
	Update(ctx context.Context, s repository.Survey) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Surveys manages event feedback. The list is public; the form and
// mutation routes are manager-only with a bare 403.
type Surveys struct {
	surveys      SurveyStore
	participants ParticipantStore
	events       EventStore
	validate     *validator.Validate
}

// NewSurveys creates the surveys handler.
func NewSurveys(surveys SurveyStore, participants ParticipantStore, events EventStore) *Surveys {
	return &Surveys{
		surveys:      surveys,
		participants: participants,
		events:       events,
		validate:     validator.New(),
	}
}

// Routes implements web.Handler. The list shares the Route block with
// the gated routes; see Donations.Routes for the registration note.
func (h *Surveys) Routes(r web.Router) {
	r.Route("/surveys", func(r web.Router) {
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

func (h *Surveys) list(c web.Context) error {
	surveys, err := h.surveys.List(c.Context())
	if err != nil {
		c.LogError("failed to load surveys", "error", err)
		flash(c, session.Error("Could not load surveys. Please try again."))
		surveys = nil
	}
	return c.Render(http.StatusOK, views.SurveyList(page(c, "Surveys"), surveys))
}

// formChoices loads the dropdown data; a failure leaves a dropdown
// empty rather than failing the whole form.
func (h *Surveys) formChoices(c web.Context) ([]repository.Participant, []repository.Event) {
	participants, err := h.participants.List(c.Context())
	if err != nil {
		c.LogError("failed to load participants for survey form", "error", err)
	}
	events, err := h.events.List(c.Context())
	if err != nil {
		c.LogError("failed to load events for survey form", "error", err)
	}
	return participants, events
}

func (h *Surveys) newForm(c web.Context) error {
	participants, events := h.formChoices(c)
	return c.Render(http.StatusOK, views.SurveyForm(page(c, "New Survey"), nil, participants, events, "/surveys/new"))
}

type surveyRequest struct {
	Comments            string `validate:"max=5000"`
	SatisfactionScore   int    `validate:"min=0,max=5"`
	UsefulnessScore     int    `validate:"min=0,max=5"`
	RecommendationScore int    `validate:"min=0,max=5"`
}

func (h *Surveys) parseForm(c web.Context) (repository.Survey, error) {
	satisfaction, _ := strconv.Atoi(c.Form("satisfaction_score"))
	usefulness, _ := strconv.Atoi(c.Form("usefulness_score"))
	recommendation, _ := strconv.Atoi(c.Form("recommendation_score"))

	req := surveyRequest{
		Comments:            sanitizer.Strip(c.Form("comments")),
		SatisfactionScore:   satisfaction,
		UsefulnessScore:     usefulness,
		RecommendationScore: recommendation,
	}
	if err := h.validate.Struct(req); err != nil {
		return repository.Survey{}, err
	}
	return repository.Survey{
		ParticipantID:       parseUUIDPtr(c.Form("participant_id")),
		EventID:             parseUUIDPtr(c.Form("event_id")),
		SatisfactionScore:   req.SatisfactionScore,
		UsefulnessScore:     req.UsefulnessScore,
		RecommendationScore: req.RecommendationScore,
		Comments:            req.Comments,
		SurveyDate:          parseDate(c.Form("survey_date")),
	}, nil
}

func (h *Surveys) create(c web.Context) error {
	survey, err := h.parseForm(c)
	if err != nil {
		flash(c, session.Error("Please check the form: scores must be between 0 and 5."))
		return c.Redirect(http.StatusSeeOther, "/surveys/new")
	}
	if _, err := h.surveys.Create(c.Context(), survey); err != nil {
		c.LogError("failed to create survey", "error", err)
		flash(c, session.Error("Could not save the survey."))
		return c.Redirect(http.StatusSeeOther, "/surveys/new")
	}
	flash(c, session.Success("Survey recorded."))
	return c.Redirect(http.StatusSeeOther, "/surveys")
}

func (h *Surveys) editForm(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	survey, err := h.surveys.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "survey not found")
		}
		return c.Error(http.StatusInternalServerError, "failed to load survey", web.WithError(err))
	}
	participants, events := h.formChoices(c)
	return c.Render(http.StatusOK, views.SurveyForm(page(c, "Edit Survey"), survey, participants, events,
		"/surveys/"+id.String()+"/update"))
}

func (h *Surveys) update(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	survey, err := h.parseForm(c)
	if err != nil {
		flash(c, session.Error("Please check the form and try again."))
		return c.Redirect(http.StatusSeeOther, "/surveys/"+id.String()+"/edit")
	}
	survey.ID = id
	if err := h.surveys.Update(c.Context(), survey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "survey not found")
		}
		c.LogError("failed to update survey", "error", err)
		flash(c, session.Error("Could not update the survey."))
		return c.Redirect(http.StatusSeeOther, "/surveys/"+id.String()+"/edit")
	}
	flash(c, session.Success("Survey updated."))
	return c.Redirect(http.StatusSeeOther, "/surveys")
}

func (h *Surveys) delete(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.surveys.Delete(c.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.LogError("failed to delete survey", "error", err)
		flash(c, session.Error("Could not delete the survey."))
		return c.Redirect(http.StatusSeeOther, "/surveys")
	}
	flash(c, session.Success("Survey deleted."))
	return c.Redirect(http.StatusSeeOther, "/surveys")
}
