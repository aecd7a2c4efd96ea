package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/craftline/orderdesk/internal/apperrors"
	"github.com/craftline/orderdesk/internal/cache"
	"github.com/craftline/orderdesk/internal/models"
	"github.com/craftline/orderdesk/internal/store"
	"github.com/craftline/orderdesk/internal/util"
)

type CustomerHandler struct {
	Store *store.Store
	Cache *cache.Cache
}

type customerPayload struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (h *CustomerHandler) List(c echo.Context) error {
	v, err := h.Cache.Get(c.Request().Context(), models.CollectionCustomers)
	if err != nil {
		return httpError(c, err)
	}
	customers := v.([]models.Customer)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	return c.JSON(http.StatusOK, echo.Map{
		"data":  util.Page(customers, page, size),
		"total": len(customers),
	})
}

func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerPayload
	if err := bind(c, &req); err != nil {
		return httpError(c, err)
	}

	customer := &models.Customer{Name: req.Name, Phone: req.Phone, Address: req.Address, Notes: req.Notes}
	err := h.Cache.Mutate(c.Request().Context(), models.CollectionCustomers, cache.OpInsert, func(ctx context.Context) error {
		_, err := h.Store.CreateCustomer(ctx, customer)
		return err
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpError(c, apperrors.ErrValidation)
	}
	var req customerPayload
	if err := bind(c, &req); err != nil {
		return httpError(c, err)
	}

	var updated *models.Customer
	err = h.Cache.Mutate(c.Request().Context(), models.CollectionCustomers, cache.OpUpdate, func(ctx context.Context) error {
		var err error
		updated, err = h.Store.UpdateCustomer(ctx, id, models.Customer{
			Name: req.Name, Phone: req.Phone, Address: req.Address, Notes: req.Notes,
		})
		return err
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpError(c, apperrors.ErrValidation)
	}
	err = h.Cache.Mutate(c.Request().Context(), models.CollectionCustomers, cache.OpDelete, func(ctx context.Context) error {
		return h.Store.DeleteCustomer(ctx, id)
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
