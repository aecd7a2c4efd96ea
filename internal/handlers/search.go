package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftline/orderdesk/internal/search"
	"github.com/craftline/orderdesk/internal/util"
)

type SearchHandler struct {
	Search *search.Service
}

func (h *SearchHandler) Products(c echo.Context) error {
	if !h.Search.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, errResponse{"error", "search is not available"})
	}
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, errResponse{"error", "missing query"})
	}
	page, size := pageParams(c)
	from, limit := util.Calculate(page, size)

	total, products, err := h.Search.Products(c.Request().Context(), q, from, limit)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
