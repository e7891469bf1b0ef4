// Package handlers wires the HTTP surface: public pages, auth, and the
// role-gated resource screens.
package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ellarises/webapp/internal/views"
	"github.com/ellarises/webapp/internal/web"
	"github.com/ellarises/webapp/pkg/session"
)

const dateLayout = "2006-01-02"

// page builds the render context every view receives. Messages are a
// peek at the pending flash batch; Render drains it afterwards so the
// batch is shown exactly once.
func page(c web.Context, title string) views.Page {
	return views.Page{
		Title:    title,
		User:     c.CurrentUser(),
		Messages: c.Messages(),
	}
}

// flash queues a one-shot message; a failure to queue never aborts the
// request, the next page just loses the notice.
func flash(c web.Context, msg session.Message) {
	if err := c.Flash(msg); err != nil {
		c.LogWarn("failed to queue flash", "error", err)
	}
}

// denyPage renders the themed 403 used by the user-management screens.
func denyPage(c web.Context) error {
	return c.Render(http.StatusForbidden, views.Forbidden(page(c, "Access denied")))
}

// parseDate reads a form date, falling back to today when absent or malformed.
func parseDate(value string) time.Time {
	if value == "" {
		return time.Now()
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Now()
	}
	return t
}

// parseUUIDPtr reads an optional UUID form value.
func parseUUIDPtr(value string) *uuid.UUID {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return &id
}

// pathID parses the {id} route parameter.
func pathID(c web.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, c.Error(http.StatusNotFound, "not found")
	}
	return id, nil
}
