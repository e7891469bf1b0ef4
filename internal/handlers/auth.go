package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ellarises/webapp/internal/repository"
	"github.com/ellarises/webapp/internal/views"
	"github.com/ellarises/webapp/internal/web"
	"github.com/ellarises/webapp/pkg/passwd"
	"github.com/ellarises/webapp/pkg/session"
)

// UserDirectory looks up accounts for credential checks.
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*repository.User, error)
}

// Auth handles login and logout.
type Auth struct {
	users UserDirectory
}

// NewAuth creates the auth handler.
func NewAuth(users UserDirectory) *Auth {
	return &Auth{users: users}
}

// Routes implements web.Handler.
func (h *Auth) Routes(r web.Router) {
	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)
}

func (h *Auth) loginForm(c web.Context) error {
	if c.IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return c.Render(http.StatusOK, views.Login(page(c, "Log in")))
}

// login verifies credentials and establishes the session. Wrong
// username and wrong password are indistinguishable to the visitor;
// an unreachable account store is a 500, never a silent pass.
func (h *Auth) login(c web.Context) error {
	username := c.Form("username")
	password := c.Form("password")

	user, err := h.users.GetByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return h.rejectLogin(c)
		}
		return c.Error(http.StatusInternalServerError, "login unavailable", web.WithError(err))
	}

	if err := passwd.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, passwd.ErrMismatch) {
			return h.rejectLogin(c)
		}
		return c.Error(http.StatusInternalServerError, "login unavailable", web.WithError(err))
	}

	if err := c.Login(session.Identity{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     session.Role(user.Role),
	}); err != nil {
		return c.Error(http.StatusInternalServerError, "login unavailable", web.WithError(err))
	}

	target := c.ConsumeReturnTo()
	if target == "" {
		target = "/dashboard"
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// rejectLogin re-renders the form with an error; identity untouched.
func (h *Auth) rejectLogin(c web.Context) error {
	flash(c, session.Error("Invalid username or password."))
	return c.Render(http.StatusUnprocessableEntity, views.Login(page(c, "Log in")))
}

func (h *Auth) logout(c web.Context) error {
	if err := c.Logout(); err != nil {
		return c.Error(http.StatusInternalServerError, "logout failed", web.WithError(err))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
