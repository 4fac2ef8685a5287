package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/server/http/dto"
)

// PaymentHandler manages settlement endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Allowance handles GET /api/checkout/allowance.
func (h *PaymentHandler) Allowance(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	status, err := h.facade.CheckAllowance(c.Request.Context(), sessionID)
	if err != nil {
		paymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AllowanceResponse{
		ApprovalRequired: status.ApprovalRequired,
		Approved:         status.Approved,
		Allowance:        status.Allowance,
		Required:         status.Required,
	})
}

// Approve handles POST /api/checkout/approve.
func (h *PaymentHandler) Approve(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	if err := h.facade.Approve(c.Request.Context(), sessionID); err != nil {
		paymentError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Pay handles POST /api/checkout/pay.
func (h *PaymentHandler) Pay(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	order, err := h.facade.Pay(c.Request.Context(), sessionID)
	if err != nil {
		paymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func paymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrProviderUnavailable):
		c.Status(http.StatusServiceUnavailable)
	case errors.Is(err, domainErrors.ErrSettlementInProgress), errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrOrderNotReady):
		c.Status(http.StatusConflict)
	case errors.Is(err, domainErrors.ErrWalletRequired):
		c.Status(http.StatusBadRequest)
	case errors.Is(err, domainErrors.ErrApprovalFailed), errors.Is(err, domainErrors.ErrTransferFailed):
		c.Status(http.StatusBadGateway)
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	default:
		c.Status(http.StatusInternalServerError)
	}
}
