package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftline/orderdesk/internal/auth"
)

type AuthHandler struct {
	Auth *auth.Service
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginPayload
	if err := bind(c, &req); err != nil {
		return httpError(c, err)
	}
	sess, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":       sess.Token,
		"expires_at":  sess.Expiry,
		"role":        sess.Role,
		"permissions": auth.PermissionsForRole(sess.Role),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	sess := SessionFromContext(c)
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, errResponse{"error", "no active session"})
	}
	if err := h.Auth.Logout(c.Request().Context(), sess.Token); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
