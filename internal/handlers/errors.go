package handlers

import (
	"net/http"

	"github.com/ellarises/webapp/internal/views"
	"github.com/ellarises/webapp/internal/web"
)

// ErrorHandler converts handler errors into themed pages. Internal
// detail is logged, never rendered.
func ErrorHandler(c web.Context, err error) error {
	if c.Written() {
		return nil
	}

	code := http.StatusInternalServerError
	if httpErr := web.AsHTTPError(err); httpErr != nil {
		code = httpErr.Code
	}

	switch code {
	case http.StatusNotFound:
		return c.Render(code, views.NotFound(page(c, "Page not found")))
	case http.StatusForbidden:
		return c.Render(code, views.Forbidden(page(c, "Access denied")))
	default:
		if code >= http.StatusInternalServerError {
			c.LogError("request failed", "error", err, "status", code)
		}
		return c.Render(code, views.ServerError(page(c, "Something went wrong")))
	}
}

// NotFoundHandler renders the themed 404 for unmatched routes.
func NotFoundHandler(c web.Context) error {
	return c.Render(http.StatusNotFound, views.NotFound(page(c, "Page not found")))
}

// MethodNotAllowedHandler renders the themed 405 for known paths hit
// with the wrong verb.
func MethodNotAllowedHandler(c web.Context) error {
	return c.Render(http.StatusMethodNotAllowed, views.MethodNotAllowed(page(c, "Method not allowed")))
}
