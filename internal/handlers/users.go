package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/craftline/orderdesk/internal/apperrors"
	"github.com/craftline/orderdesk/internal/auth"
	"github.com/craftline/orderdesk/internal/cache"
	"github.com/craftline/orderdesk/internal/models"
	"github.com/craftline/orderdesk/internal/store"
	"github.com/craftline/orderdesk/internal/util"
)

type UserHandler struct {
	Store *store.Store
	Cache *cache.Cache
}

type userPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role" validate:"required"`
}

// userView is a user with the derived capability set attached. Permissions
// are computed from the role on every read, never stored.
type userView struct {
	models.User
	Permissions []auth.Permission `json:"permissions"`
}

func viewUsers(users []models.User) []userView {
	views := make([]userView, len(users))
	for i, u := range users {
		views[i] = userView{User: u, Permissions: auth.PermissionsForRole(u.Role)}
	}
	return views
}

func (h *UserHandler) List(c echo.Context) error {
	v, err := h.Cache.Get(c.Request().Context(), models.CollectionUsers)
	if err != nil {
		return httpError(c, err)
	}
	users := v.([]models.User)

	page, size := pageParams(c)
	return c.JSON(http.StatusOK, echo.Map{
		"data":  util.Page(viewUsers(users), page, size),
		"total": len(users),
	})
}

func (h *UserHandler) Create(c echo.Context) error {
	var req userPayload
	if err := bind(c, &req); err != nil {
		return httpError(c, err)
	}
	if !auth.ValidRole(req.Role) || req.Password == "" {
		return httpError(c, apperrors.ErrValidation)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return httpError(c, err)
	}

	user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: hash, Role: req.Role}
	err = h.Cache.Mutate(c.Request().Context(), models.CollectionUsers, cache.OpInsert, func(ctx context.Context) error {
		_, err := h.Store.CreateUser(ctx, user)
		return err
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, userView{User: *user, Permissions: auth.PermissionsForRole(user.Role)})
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpError(c, apperrors.ErrValidation)
	}
	var req userPayload
	if err := bind(c, &req); err != nil {
		return httpError(c, err)
	}
	if !auth.ValidRole(req.Role) {
		return httpError(c, apperrors.ErrValidation)
	}

	in := models.User{Name: req.Name, Email: req.Email, Role: req.Role}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return httpError(c, err)
		}
		in.PasswordHash = hash
	}

	var updated *models.User
	err = h.Cache.Mutate(c.Request().Context(), models.CollectionUsers, cache.OpUpdate, func(ctx context.Context) error {
		var err error
		updated, err = h.Store.UpdateUser(ctx, id, in)
		return err
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, userView{User: *updated, Permissions: auth.PermissionsForRole(updated.Role)})
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpError(c, apperrors.ErrValidation)
	}
	err = h.Cache.Mutate(c.Request().Context(), models.CollectionUsers, cache.OpDelete, func(ctx context.Context) error {
		return h.Store.DeleteUser(ctx, id)
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
