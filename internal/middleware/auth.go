package middleware

import (
	"net/http"

	"github.com/ellarises/webapp/internal/web"
)

// LoginPath is where anonymous visitors are sent when a page requires login.
const LoginPath = "/login"

// RequireAuth redirects anonymous visitors to the login page, recording
// the requested path so a successful login can resume where the visitor
// left off.
func RequireAuth() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			if !c.IsAuthenticated() {
				if c.Request().Method == http.MethodGet {
					if err := c.SetReturnTo(c.Request().URL.RequestURI()); err != nil {
						c.LogWarn("failed to record return path", "error", err)
					}
				}
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			return next(c)
		}
	}
}

// RequireManager denies access to visitors whose session does not carry
// the manager role. Unknown roles are denied. The deny handler writes
// the refusal response; use DenyBare or a themed page handler.
func RequireManager(deny web.HandlerFunc) web.Middleware {
	if deny == nil {
		deny = DenyBare
	}
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			user := c.CurrentUser()
			if user == nil || !user.Role.IsManager() {
				return deny(c)
			}
			return next(c)
		}
	}
}

// DenyBare refuses the request with a plain text 403.
func DenyBare(c web.Context) error {
	return c.String(http.StatusForbidden, "Access denied.")
}
