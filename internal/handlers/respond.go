package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/craftline/orderdesk/internal/apperrors"
	"github.com/craftline/orderdesk/internal/auth"
)

var validate = validator.New()

type errResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// httpError maps the error taxonomy onto status codes. Users get a short
// generic message; the full error was already logged at the mutation
// boundary.
func httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return c.JSON(http.StatusBadRequest, errResponse{"error", "invalid input"})
	case errors.Is(err, apperrors.ErrNotFound):
		return c.JSON(http.StatusNotFound, errResponse{"error", "record not found"})
	case errors.Is(err, apperrors.ErrReferenceNotFound):
		return c.JSON(http.StatusUnprocessableEntity, errResponse{"error", "entity not found"})
	case errors.Is(err, apperrors.ErrInvalidStatus):
		return c.JSON(http.StatusUnprocessableEntity, errResponse{"error", "invalid status"})
	case errors.Is(err, apperrors.ErrConstraint):
		return c.JSON(http.StatusConflict, errResponse{"error", "conflicting record"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, errResponse{"error", "invalid credentials"})
	default:
		return c.JSON(http.StatusInternalServerError, errResponse{"error", "operation failed"})
	}
}

func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	size, _ = strconv.Atoi(c.QueryParam("size"))
	return page, size
}

// bind decodes and validates a request payload. Validation failures never
// reach the store.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperrors.ErrValidation
	}
	if err := validate.Struct(v); err != nil {
		return apperrors.ErrValidation
	}
	return nil
}
