package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/domain/model"
	"github.com/wildfire-market/checkout/internal/server/http/dto"
	"github.com/wildfire-market/checkout/internal/usecase"
)

// CheckoutHandler manages checkout flow endpoints.
type CheckoutHandler struct {
	facade CheckoutFlowFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFlowFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Session handles GET /api/checkout.
func (h *CheckoutHandler) Session(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	session, err := h.facade.Session(c.Request.Context(), sessionID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{
		Step:         int(session.Step),
		Currency:     string(session.Currency),
		OrderNumber:  session.OrderNumber,
		Approved:     session.Approved,
		OnrampActive: session.OnrampActive,
	})
}

// SelectCurrency handles POST /api/checkout/currency.
func (h *CheckoutHandler) SelectCurrency(c *gin.Context) {
	sessionID := CurrentSessionID(c)

	var req dto.SelectCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.SelectCurrency(c.Request.Context(), sessionID, model.Currency(req.Currency))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCurrency):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrCurrencyLocked):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.Status(http.StatusOK)
}

// Begin handles POST /api/checkout/begin.
func (h *CheckoutHandler) Begin(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	err := h.facade.BeginCheckout(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrEmptyCart):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.Status(http.StatusOK)
}

// SubmitCustomer handles POST /api/checkout/customer.
func (h *CheckoutHandler) SubmitCustomer(c *gin.Context) {
	sessionID := CurrentSessionID(c)

	var req dto.CustomerInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	info := model.CustomerInfo{
		Name:          req.Name,
		Email:         req.Email,
		WalletAddress: req.WalletAddress,
		Telegram:      req.Telegram,
		XHandle:       req.XHandle,
		Discord:       req.Discord,
	}

	order, err := h.facade.SubmitCustomerInfo(c.Request.Context(), sessionID, info, req.WalletConnected)
	if err != nil {
		var fieldErrs usecase.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Errors: fieldErrs})
		case errors.Is(err, domainErrors.ErrEmptyCart):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Back handles POST /api/checkout/back.
func (h *CheckoutHandler) Back(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	err := h.facade.BackToInfo(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrSettlementInProgress), errors.Is(err, domainErrors.ErrInvalidTransition):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.Status(http.StatusOK)
}

// StartOnramp handles POST /api/onramp.
func (h *CheckoutHandler) StartOnramp(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	currency, err := h.facade.StartOnramp(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrOrderNotReady):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, dto.OnrampResponse{Currency: string(currency)})
}

// CompleteOnramp handles POST /api/onramp/callback.
func (h *CheckoutHandler) CompleteOnramp(c *gin.Context) {
	sessionID := CurrentSessionID(c)
	if err := h.facade.CompleteOnramp(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}
