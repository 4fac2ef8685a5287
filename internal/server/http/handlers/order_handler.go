package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/domain/model"
	"github.com/wildfire-market/checkout/internal/server/http/dto"
)

// OrderHandler manages order lookup endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Get handles GET /api/orders/:number.
func (h *OrderHandler) Get(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.OrderByNumber(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		Number:    order.Number,
		Status:    string(order.Status),
		Total:     order.Total.StringFixed(2),
		Currency:  string(order.Currency),
		TxHash:    order.TxHash,
		CreatedAt: order.CreatedAt,
	}
}
