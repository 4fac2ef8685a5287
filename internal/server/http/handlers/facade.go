package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wildfire-market/checkout/internal/domain/model"
)

// CartFacade encapsulates cart operations exposed via HTTP.
type CartFacade interface {
	CartLines(ctx context.Context, sessionID string) ([]model.CartLine, model.CartSummary, error)
	AddCartItem(ctx context.Context, sessionID, productID, name string, unitPrice decimal.Decimal, quantity int) (*model.CartLine, error)
	UpdateCartQuantity(ctx context.Context, sessionID, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, sessionID, productID string) error
	ClearCart(ctx context.Context, sessionID string) error
}

// CheckoutFlowFacade drives the step transitions of the checkout flow.
type CheckoutFlowFacade interface {
	Session(ctx context.Context, sessionID string) (*model.CheckoutSession, error)
	SelectCurrency(ctx context.Context, sessionID string, currency model.Currency) error
	BeginCheckout(ctx context.Context, sessionID string) error
	SubmitCustomerInfo(ctx context.Context, sessionID string, info model.CustomerInfo, walletConnected bool) (*model.Order, error)
	BackToInfo(ctx context.Context, sessionID string) error
	StartOnramp(ctx context.Context, sessionID string) (model.Currency, error)
	CompleteOnramp(ctx context.Context, sessionID string) error
}

// PaymentFacade provides allowance checks and settlement submission.
type PaymentFacade interface {
	CheckAllowance(ctx context.Context, sessionID string) (*model.AllowanceStatus, error)
	Approve(ctx context.Context, sessionID string) error
	Pay(ctx context.Context, sessionID string) (*model.Order, error)
}

// OrderFacade exposes order lookup.
type OrderFacade interface {
	OrderByNumber(ctx context.Context, number string) (*model.Order, error)
}

// CheckoutFacade aggregates the full set of operations used across handlers.
type CheckoutFacade interface {
	CartFacade
	CheckoutFlowFacade
	PaymentFacade
	OrderFacade
}
