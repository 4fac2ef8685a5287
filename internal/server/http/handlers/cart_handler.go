package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/domain/model"
	"github.com/wildfire-market/checkout/internal/server/http/dto"
)

// CartHandler manages cart-related endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// List handles GET /api/cart.
func (h *CartHandler) List(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	lines, summary, err := h.facade.CartLines(c.Request.Context(), sessionID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(lines, summary))
}

// Add handles POST /api/cart/items.
func (h *CartHandler) Add(c *gin.Context) {
	sessionID := CurrentSessionID(c)

	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	line, err := h.facade.AddCartItem(c.Request.Context(), sessionID, req.ProductID, req.Name, price, req.Quantity)
	if err != nil {
		cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartLineResponse(*line))
}

// UpdateQuantity handles PATCH /api/cart/items/:productID.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	sessionID := CurrentSessionID(c)

	var req dto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.UpdateCartQuantity(c.Request.Context(), sessionID, c.Param("productID"), req.Quantity); err != nil {
		cartError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Remove handles DELETE /api/cart/items/:productID.
func (h *CartHandler) Remove(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	if err := h.facade.RemoveCartItem(c.Request.Context(), sessionID, c.Param("productID")); err != nil {
		cartError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	if err := h.facade.ClearCart(c.Request.Context(), sessionID); err != nil {
		cartError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidQuantity), errors.Is(err, domainErrors.ErrInvalidPrice):
		c.Status(http.StatusUnprocessableEntity)
	case errors.Is(err, domainErrors.ErrCheckoutLocked):
		c.Status(http.StatusConflict)
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func toCartLineResponse(line model.CartLine) dto.CartLineResponse {
	return dto.CartLineResponse{
		ProductID: line.ProductID,
		Name:      line.ProductName,
		UnitPrice: line.UnitPrice.StringFixed(2),
		Quantity:  line.Quantity,
		LineTotal: line.LineTotal().StringFixed(2),
	}
}

func toCartResponse(lines []model.CartLine, summary model.CartSummary) dto.CartResponse {
	items := make([]dto.CartLineResponse, 0, len(lines))
	for _, line := range lines {
		items = append(items, toCartLineResponse(line))
	}
	return dto.CartResponse{
		Items:    items,
		Subtotal: summary.Subtotal.StringFixed(2),
		Discount: summary.Discount.StringFixed(2),
		Total:    summary.Total.StringFixed(2),
	}
}
