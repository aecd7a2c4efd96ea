package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/craftline/orderdesk/internal/apperrors"
	"github.com/craftline/orderdesk/internal/cache"
	"github.com/craftline/orderdesk/internal/images"
	"github.com/craftline/orderdesk/internal/logging"
	"github.com/craftline/orderdesk/internal/models"
	"github.com/craftline/orderdesk/internal/search"
	"github.com/craftline/orderdesk/internal/store"
	"github.com/craftline/orderdesk/internal/util"
)

type ProductHandler struct {
	Store  *store.Store
	Cache  *cache.Cache
	Images *images.Resolver
	Search *search.Service
}

// imagePayload lets the client pass either a hosted URL or an inline upload
// (base64 of the selected file). Neither set means the placeholder.
type imagePayload struct {
	URL         string `json:"url"`
	Data        string `json:"data"`
	ContentType string `json:"content_type"`
}

func (p imagePayload) resolve(r *images.Resolver) (string, error) {
	in := images.Input{URL: p.URL, ContentType: p.ContentType}
	if p.Data != "" {
		raw, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return "", apperrors.ErrValidation
		}
		in.Data = raw
	}
	return r.Resolve(in)
}

type productPayload struct {
	Name        string       `json:"name" validate:"required"`
	Price       string       `json:"price" validate:"required"`
	Description string       `json:"description" validate:"required"`
	FrontImage  imagePayload `json:"front_image"`
	BackImage   imagePayload `json:"back_image"`
}

func (h *ProductHandler) build(req productPayload) (*models.Product, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, apperrors.ErrValidation
	}
	front, err := req.FrontImage.resolve(h.Images)
	if err != nil {
		return nil, err
	}
	back, err := req.BackImage.resolve(h.Images)
	if err != nil {
		return nil, err
	}
	return &models.Product{
		Name:        req.Name,
		Price:       price,
		Description: req.Description,
		FrontImage:  front,
		BackImage:   back,
	}, nil
}

// index mirrors a committed product into the search index, best effort.
func (h *ProductHandler) index(c echo.Context, p *models.Product) {
	if !h.Search.Enabled() {
		return
	}
	if err := h.Search.IndexProduct(c.Request().Context(), p); err != nil {
		logging.FromContext(c.Request().Context()).Error("product index failed", "error", err)
	}
}

func (h *ProductHandler) List(c echo.Context) error {
	v, err := h.Cache.Get(c.Request().Context(), models.CollectionProducts)
	if err != nil {
		return httpError(c, err)
	}
	products := v.([]models.Product)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	return c.JSON(http.StatusOK, echo.Map{
		"data":  util.Page(products, page, size),
		"total": len(products),
	})
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req productPayload
	if err := bind(c, &req); err != nil {
		return httpError(c, err)
	}
	product, err := h.build(req)
	if err != nil {
		return httpError(c, err)
	}

	err = h.Cache.Mutate(c.Request().Context(), models.CollectionProducts, cache.OpInsert, func(ctx context.Context) error {
		_, err := h.Store.CreateProduct(ctx, product)
		return err
	})
	if err != nil {
		return httpError(c, err)
	}
	h.index(c, product)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpError(c, apperrors.ErrValidation)
	}
	var req productPayload
	if err := bind(c, &req); err != nil {
		return httpError(c, err)
	}
	in, err := h.build(req)
	if err != nil {
		return httpError(c, err)
	}

	var updated *models.Product
	err = h.Cache.Mutate(c.Request().Context(), models.CollectionProducts, cache.OpUpdate, func(ctx context.Context) error {
		var err error
		updated, err = h.Store.UpdateProduct(ctx, id, *in)
		return err
	})
	if err != nil {
		return httpError(c, err)
	}
	h.index(c, updated)
	return c.JSON(http.StatusOK, updated)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpError(c, apperrors.ErrValidation)
	}
	err = h.Cache.Mutate(c.Request().Context(), models.CollectionProducts, cache.OpDelete, func(ctx context.Context) error {
		return h.Store.DeleteProduct(ctx, id)
	})
	if err != nil {
		return httpError(c, err)
	}
	if h.Search.Enabled() {
		if err := h.Search.DeleteProduct(c.Request().Context(), id.String()); err != nil {
			logging.FromContext(c.Request().Context()).Error("product unindex failed", "error", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
