package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/craftline/orderdesk/internal/apperrors"
	"github.com/craftline/orderdesk/internal/cache"
	"github.com/craftline/orderdesk/internal/images"
	"github.com/craftline/orderdesk/internal/models"
	"github.com/craftline/orderdesk/internal/resolver"
	"github.com/craftline/orderdesk/internal/store"
	"github.com/craftline/orderdesk/internal/util"
)

type OrderHandler struct {
	Store    *store.Store
	Cache    *cache.Cache
	Resolver *resolver.Resolver
	Images   *images.Resolver
}

// createOrderPayload mirrors the add-order dialog: the customer and product
// are picked by display name, and the product's images are copied into the
// order unless the client supplies its own.
type createOrderPayload struct {
	Customer   string       `json:"customer" validate:"required"`
	Product    string       `json:"product" validate:"required"`
	Status     string       `json:"status"`
	OrderDate  string       `json:"order_date" validate:"required"`
	FrontImage imagePayload `json:"front_image"`
	BackImage  imagePayload `json:"back_image"`
	Notes      string       `json:"notes"`
}

// updateOrderPayload mirrors the edit-order dialog, which works on raw ids.
type updateOrderPayload struct {
	CustomerID string       `json:"customer_id" validate:"required,uuid"`
	ProductID  string       `json:"product_id" validate:"required,uuid"`
	Status     string       `json:"status"`
	OrderDate  string       `json:"order_date" validate:"required"`
	FrontImage imagePayload `json:"front_image"`
	BackImage  imagePayload `json:"back_image"`
	Notes      string       `json:"notes"`
}

func validOrderDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return apperrors.ErrValidation
	}
	return nil
}

func lang(c echo.Context) string {
	if l := c.QueryParam("lang"); l != "" {
		return l
	}
	return "en"
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	v, err := h.Cache.Get(ctx, models.CollectionOrders)
	if err != nil {
		return httpError(c, err)
	}
	orders := v.([]models.Order)

	views, err := h.Resolver.ResolveOrders(ctx, orders, lang(c))
	if err != nil {
		return httpError(c, err)
	}

	page, size := pageParams(c)
	return c.JSON(http.StatusOK, echo.Map{
		"data":  util.Page(views, page, size),
		"total": len(views),
	})
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpError(c, apperrors.ErrValidation)
	}
	order, err := h.Store.GetOrder(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	view, err := h.Resolver.ResolveOrder(ctx, *order, lang(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	var req createOrderPayload
	if err := bind(c, &req); err != nil {
		return httpError(c, err)
	}
	if err := validOrderDate(req.OrderDate); err != nil {
		return httpError(c, err)
	}

	customer, err := h.Resolver.CustomerByName(ctx, req.Customer)
	if err != nil {
		return httpError(c, err)
	}
	product, err := h.Resolver.ProductByName(ctx, req.Product)
	if err != nil {
		return httpError(c, err)
	}

	front, err := req.FrontImage.resolve(h.Images)
	if err != nil {
		return httpError(c, err)
	}
	back, err := req.BackImage.resolve(h.Images)
	if err != nil {
		return httpError(c, err)
	}
	// No explicit image supplied: inherit the product's, as the add dialog
	// does.
	if front == images.Placeholder && product.FrontImage != "" {
		front = product.FrontImage
	}
	if back == images.Placeholder && product.BackImage != "" {
		back = product.BackImage
	}

	order := &models.Order{
		CustomerID: customer.ID,
		ProductID:  product.ID,
		Status:     req.Status,
		OrderDate:  req.OrderDate,
		FrontImage: front,
		BackImage:  back,
		Notes:      req.Notes,
	}
	err = h.Cache.Mutate(ctx, models.CollectionOrders, cache.OpInsert, func(ctx context.Context) error {
		_, err := h.Store.CreateOrder(ctx, order)
		return err
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpError(c, apperrors.ErrValidation)
	}
	var req updateOrderPayload
	if err := bind(c, &req); err != nil {
		return httpError(c, err)
	}
	if err := validOrderDate(req.OrderDate); err != nil {
		return httpError(c, err)
	}
	customerID, _ := uuid.Parse(req.CustomerID)
	productID, _ := uuid.Parse(req.ProductID)

	existing, err := h.Store.GetOrder(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	front, err := req.FrontImage.resolve(h.Images)
	if err != nil {
		return httpError(c, err)
	}
	back, err := req.BackImage.resolve(h.Images)
	if err != nil {
		return httpError(c, err)
	}
	// The edit dialog leaves images alone unless new ones are supplied.
	if front == images.Placeholder && existing.FrontImage != "" {
		front = existing.FrontImage
	}
	if back == images.Placeholder && existing.BackImage != "" {
		back = existing.BackImage
	}

	var updated *models.Order
	err = h.Cache.Mutate(ctx, models.CollectionOrders, cache.OpUpdate, func(ctx context.Context) error {
		var err error
		updated, err = h.Store.UpdateOrder(ctx, id, models.Order{
			CustomerID: customerID,
			ProductID:  productID,
			Status:     req.Status,
			OrderDate:  req.OrderDate,
			FrontImage: front,
			BackImage:  back,
			Notes:      req.Notes,
		})
		return err
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpError(c, apperrors.ErrValidation)
	}
	err = h.Cache.Mutate(c.Request().Context(), models.CollectionOrders, cache.OpDelete, func(ctx context.Context) error {
		return h.Store.DeleteOrder(ctx, id)
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
