package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftline/orderdesk/internal/logging"
	"github.com/craftline/orderdesk/internal/sms"
)

type SMSHandler struct {
	Client *sms.Client
}

type smsPayload struct {
	To      string `json:"to" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (h *SMSHandler) Send(c echo.Context) error {
	ctx := c.Request().Context()
	var req smsPayload
	if err := bind(c, &req); err != nil {
		return httpError(c, err)
	}
	sid, err := h.Client.Send(ctx, req.To, req.Message)
	if err != nil {
		logging.FromContext(ctx).Error("sms send failed", "error", err)
		if err == sms.ErrNotConfigured {
			return c.JSON(http.StatusInternalServerError, errResponse{"error", "sms not configured"})
		}
		return c.JSON(http.StatusBadRequest, errResponse{"error", err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "sid": sid})
}
