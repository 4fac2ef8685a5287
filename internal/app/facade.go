package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wildfire-market/checkout/internal/config"
	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/domain/model"
	"github.com/wildfire-market/checkout/internal/usecase"
)

// CheckoutFacade aggregates the checkout, cart, allowance and settlement use
// cases behind the surface the HTTP layer and the sweeper consume.
type CheckoutFacade struct {
	cart      *usecase.CartUseCase
	checkout  *usecase.CheckoutUseCase
	allowance *usecase.AllowanceUseCase
	engine    *usecase.SettlementEngine
	config    *config.Config
	logger    *slog.Logger
}

// NewCheckoutFacade constructs CheckoutFacade.
func NewCheckoutFacade(
	cart *usecase.CartUseCase,
	checkout *usecase.CheckoutUseCase,
	allowance *usecase.AllowanceUseCase,
	engine *usecase.SettlementEngine,
	cfg *config.Config,
	logger *slog.Logger,
) *CheckoutFacade {
	return &CheckoutFacade{
		cart:      cart,
		checkout:  checkout,
		allowance: allowance,
		engine:    engine,
		config:    cfg,
		logger:    logger,
	}
}

func (f *CheckoutFacade) Session(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	return f.checkout.Session(ctx, sessionID)
}

func (f *CheckoutFacade) CartLines(ctx context.Context, sessionID string) ([]model.CartLine, model.CartSummary, error) {
	return f.cart.List(ctx, sessionID)
}

func (f *CheckoutFacade) AddCartItem(ctx context.Context, sessionID, productID, name string, unitPrice decimal.Decimal, quantity int) (*model.CartLine, error) {
	return f.cart.Add(ctx, sessionID, productID, name, unitPrice, quantity)
}

func (f *CheckoutFacade) UpdateCartQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	return f.cart.UpdateQuantity(ctx, sessionID, productID, quantity)
}

func (f *CheckoutFacade) RemoveCartItem(ctx context.Context, sessionID, productID string) error {
	return f.cart.Remove(ctx, sessionID, productID)
}

func (f *CheckoutFacade) ClearCart(ctx context.Context, sessionID string) error {
	return f.cart.Clear(ctx, sessionID)
}

func (f *CheckoutFacade) SelectCurrency(ctx context.Context, sessionID string, currency model.Currency) error {
	return f.checkout.SelectCurrency(ctx, sessionID, currency)
}

func (f *CheckoutFacade) BeginCheckout(ctx context.Context, sessionID string) error {
	return f.checkout.Begin(ctx, sessionID)
}

func (f *CheckoutFacade) SubmitCustomerInfo(ctx context.Context, sessionID string, info model.CustomerInfo, walletConnected bool) (*model.Order, error) {
	return f.checkout.SubmitCustomerInfo(ctx, sessionID, info, walletConnected)
}

func (f *CheckoutFacade) BackToInfo(ctx context.Context, sessionID string) error {
	return f.checkout.Back(ctx, sessionID)
}

// CheckAllowance queries the payer's on-chain allowance for the session's
// order. Query failures are fail-safe: the caller is told approval is
// required rather than being allowed to skip the approval step. An absent
// wallet provider is surfaced as an error so it can be told apart from a
// zero allowance.
func (f *CheckoutFacade) CheckAllowance(ctx context.Context, sessionID string) (*model.AllowanceStatus, error) {
	req, err := f.paymentRequest(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session, err := f.checkout.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if req.Payer == "" {
		return nil, domainErrors.ErrWalletRequired
	}

	tokenAddress, err := f.engine.TokenAddress(*req)
	if err != nil {
		return nil, err
	}
	required := f.engine.RequiredAmount(*req)

	record, err := f.allowance.Check(ctx, req.Payer, tokenAddress, req.Recipient, required)
	if err != nil {
		if errors.Is(err, domainErrors.ErrProviderUnavailable) {
			return nil, err
		}
		f.logger.Warn("allowance query failed, requiring approval",
			slog.String("order", req.OrderNumber),
			slog.String("error", err.Error()),
		)
		return &model.AllowanceStatus{
			ApprovalRequired: true,
			Approved:         session.Approved,
			Required:         required.String(),
		}, nil
	}

	return &model.AllowanceStatus{
		ApprovalRequired: !record.Sufficient(),
		Approved:         session.Approved,
		Allowance:        record.Allowance.String(),
		Required:         required.String(),
	}, nil
}

// Approve submits the unlimited approval transaction for the session's order.
func (f *CheckoutFacade) Approve(ctx context.Context, sessionID string) error {
	req, err := f.paymentRequest(ctx, sessionID)
	if err != nil {
		return err
	}
	return f.engine.Approve(ctx, sessionID, *req)
}

// Pay submits the transfer transaction and, on success, finalizes the order.
func (f *CheckoutFacade) Pay(ctx context.Context, sessionID string) (*model.Order, error) {
	req, err := f.paymentRequest(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	hash, err := f.engine.SendPayment(ctx, sessionID, *req)
	if err != nil {
		return nil, err
	}
	return f.checkout.Finalize(ctx, sessionID, hash)
}

func (f *CheckoutFacade) StartOnramp(ctx context.Context, sessionID string) (model.Currency, error) {
	return f.checkout.StartOnramp(ctx, sessionID)
}

func (f *CheckoutFacade) CompleteOnramp(ctx context.Context, sessionID string) error {
	return f.checkout.CompleteOnramp(ctx, sessionID)
}

func (f *CheckoutFacade) OrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	return f.checkout.OrderByNumber(ctx, number)
}

// SessionsToSweep returns sessions abandoned for longer than the configured TTL.
func (f *CheckoutFacade) SessionsToSweep(ctx context.Context, limit int) ([]model.CheckoutSession, error) {
	cutoff := time.Now().Add(-f.config.SessionTTL)
	return f.checkout.ExpiredSessions(ctx, cutoff, limit)
}

// RemoveSession drops an abandoned session and its cart.
func (f *CheckoutFacade) RemoveSession(ctx context.Context, sessionID string) error {
	return f.checkout.RemoveSession(ctx, sessionID)
}

func (f *CheckoutFacade) paymentRequest(ctx context.Context, sessionID string) (*model.PaymentRequest, error) {
	return f.checkout.PaymentRequest(ctx, sessionID, f.config.RecipientAddress, f.config.ProjectTokenAddress)
}
