package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ellarises/webapp/internal/middleware"
	"github.com/ellarises/webapp/internal/repository"
	"github.com/ellarises/webapp/internal/views"
	"github.com/ellarises/webapp/internal/web"
	"github.com/ellarises/webapp/pkg/passwd"
	"github.com/ellarises/webapp/pkg/sanitizer"
	"github.com/ellarises/webapp/pkg/session"
)

// Users manages application accounts. Every route, including the list,
// is manager-only and denies with the themed 403 page.
type Users struct {
	users    *repository.UserRepository
	validate *validator.Validate
}

// NewUsers creates the users handler.
func NewUsers(users *repository.UserRepository) *Users {
	return &Users{users: users, validate: validator.New()}
}

// Routes implements web.Handler.
func (h *Users) Routes(r web.Router) {
	r.Route("/users", func(r web.Router) {
		r.Use(middleware.RequireAuth(), middleware.RequireManager(denyPage))
		r.GET("/", h.list)
		r.GET("/new", h.newForm)
		r.POST("/new", h.create)
		r.GET("/{id}/edit", h.editForm)
		r.POST("/{id}/update", h.update)
		r.POST("/{id}/delete", h.delete)
	})
}

func (h *Users) list(c web.Context) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		c.LogError("failed to load users", "error", err)
		flash(c, session.Error("Could not load users. Please try again."))
		users = nil
	}
	return c.Render(http.StatusOK, views.UserList(page(c, "Users"), users))
}

func (h *Users) newForm(c web.Context) error {
	return c.Render(http.StatusOK, views.UserForm(page(c, "New User"), nil, "/users/new"))
}

type userRequest struct {
	Username string `validate:"required,min=3,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"omitempty,min=8"`
	Role     string `validate:"required,oneof=user manager"`
}

func (h *Users) create(c web.Context) error {
	req := userRequest{
		Username: sanitizer.Strip(c.Form("username")),
		Email:    sanitizer.Strip(c.Form("email")),
		Password: c.Form("password"),
		Role:     c.Form("role"),
	}
	if err := h.validate.Struct(req); err != nil || req.Password == "" {
		flash(c, session.Error("Please check the form: username, email, role, and a password of at least 8 characters are required."))
		return c.Redirect(http.StatusSeeOther, "/users/new")
	}

	hash, err := passwd.Hash(req.Password)
	if err != nil {
		return c.Error(http.StatusInternalServerError, "failed to create user", web.WithError(err))
	}

	if _, err := h.users.Create(c.Context(), repository.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}); err != nil {
		c.LogError("failed to create user", "error", err)
		flash(c, session.Error("Could not create the user."))
		return c.Redirect(http.StatusSeeOther, "/users/new")
	}

	flash(c, session.Success("User created."))
	return c.Redirect(http.StatusSeeOther, "/users")
}

func (h *Users) editForm(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "user not found")
		}
		return c.Error(http.StatusInternalServerError, "failed to load user", web.WithError(err))
	}
	return c.Render(http.StatusOK, views.UserForm(page(c, "Edit User"), user, "/users/"+id.String()+"/update"))
}

func (h *Users) update(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	req := userRequest{
		Username: sanitizer.Strip(c.Form("username")),
		Email:    sanitizer.Strip(c.Form("email")),
		Password: c.Form("password"),
		Role:     c.Form("role"),
	}
	if err := h.validate.Struct(req); err != nil {
		flash(c, session.Error("Please check the form and try again."))
		return c.Redirect(http.StatusSeeOther, "/users/"+id.String()+"/edit")
	}

	// Blank password keeps the stored hash.
	hash := ""
	if req.Password != "" {
		hash, err = passwd.Hash(req.Password)
		if err != nil {
			return c.Error(http.StatusInternalServerError, "failed to update user", web.WithError(err))
		}
	}

	if err := h.users.Update(c.Context(), repository.User{
		ID:           id,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Error(http.StatusNotFound, "user not found")
		}
		c.LogError("failed to update user", "error", err)
		flash(c, session.Error("Could not update the user."))
		return c.Redirect(http.StatusSeeOther, "/users/"+id.String()+"/edit")
	}

	flash(c, session.Success("User updated."))
	return c.Redirect(http.StatusSeeOther, "/users")
}

func (h *Users) delete(c web.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.LogError("failed to delete user", "error", err)
		flash(c, session.Error("Could not delete the user."))
		return c.Redirect(http.StatusSeeOther, "/users")
	}
	flash(c, session.Success("User deleted."))
	return c.Redirect(http.StatusSeeOther, "/users")
}
