package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emgimbal/shop/internal/payments"
)

type PaymentHandler struct {
	Gateway *payments.Client
}

// CreatePaymentIntent converts the major-unit price to minor units and asks
// the gateway for a card intent. The price itself is not validated.
func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	var req struct {
		Price float64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	amount := payments.MinorUnits(req.Price)

	secret, err := h.Gateway.CreateIntent(c.Request().Context(), amount)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"clientSecret": secret,
	})
}
