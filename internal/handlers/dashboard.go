package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftline/orderdesk/internal/cache"
	"github.com/craftline/orderdesk/internal/models"
	"github.com/craftline/orderdesk/internal/status"
)

// DashboardHandler serves the summary counts of the landing page. It reads
// through the same cache as every other consumer.
type DashboardHandler struct {
	Cache *cache.Cache
}

func (h *DashboardHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	v, err := h.Cache.Get(ctx, models.CollectionOrders)
	if err != nil {
		return httpError(c, err)
	}
	orders := v.([]models.Order)

	byStatus := map[string]int{}
	for _, st := range status.All() {
		byStatus[string(st)] = 0
	}
	for i := range orders {
		byStatus[orders[i].Status]++
	}

	v, err = h.Cache.Get(ctx, models.CollectionCustomers)
	if err != nil {
		return httpError(c, err)
	}
	customers := v.([]models.Customer)

	v, err = h.Cache.Get(ctx, models.CollectionProducts)
	if err != nil {
		return httpError(c, err)
	}
	products := v.([]models.Product)

	return c.JSON(http.StatusOK, echo.Map{
		"orders":           len(orders),
		"orders_by_status": byStatus,
		"customers":        len(customers),
		"products":         len(products),
	})
}
