package usecase

import (
	"context"
	"log/slog"
	"time"

	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/domain/model"
	"github.com/wildfire-market/checkout/internal/domain/repository"
)

// CheckoutUseCase drives the three-step checkout flow: cart review, customer
// info, payment. Step transitions are validated against the checkout
// transition table; the payment step delegates settlement to the engine and
// finalizes the order on its completion event.
type CheckoutUseCase struct {
	sessions repository.SessionRepository
	carts    repository.CartRepository
	orders   repository.OrderRepository
	logger   *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	sessions repository.SessionRepository,
	carts repository.CartRepository,
	orders repository.OrderRepository,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{sessions: sessions, carts: carts, orders: orders, logger: logger}
}

// Session returns the checkout session, creating it on first sight.
func (u *CheckoutUseCase) Session(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	return u.sessions.GetOrCreate(ctx, sessionID)
}

// SelectCurrency picks the settlement currency. The choice is locked once the
// session reaches the payment step.
func (u *CheckoutUseCase) SelectCurrency(ctx context.Context, sessionID string, currency model.Currency) error {
	if !currency.Valid() {
		return domainErrors.ErrInvalidCurrency
	}
	session, err := u.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Step >= model.StepAwaitingPayment {
		return domainErrors.ErrCurrencyLocked
	}
	return u.sessions.UpdateCurrency(ctx, sessionID, currency)
}

// Begin advances from cart review to customer info. The cart must be
// non-empty.
func (u *CheckoutUseCase) Begin(ctx context.Context, sessionID string) error {
	session, err := u.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return err
	}
	if !model.CanStep(session.Step, model.StepEnteringInfo) {
		return domainErrors.ErrInvalidTransition
	}
	lines, err := u.carts.ListBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return domainErrors.ErrEmptyCart
	}
	return u.sessions.UpdateStep(ctx, sessionID, model.StepEnteringInfo)
}

// SubmitCustomerInfo validates the customer-info step and, when it passes,
// creates the order and advances to the payment step. Validation failures are
// returned as FieldErrors with every failing field collected.
func (u *CheckoutUseCase) SubmitCustomerInfo(ctx context.Context, sessionID string, info model.CustomerInfo, walletConnected bool) (*model.Order, error) {
	session, err := u.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !model.CanStep(session.Step, model.StepAwaitingPayment) {
		return nil, domainErrors.ErrInvalidTransition
	}

	info = NormalizeCustomerInfo(info)
	if errs := ValidateCustomerInfo(info, walletConnected); errs != nil {
		return nil, errs
	}

	lines, err := u.carts.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}
	summary := model.SummarizeCart(lines, session.Currency)

	order := &model.Order{
		SessionID:     sessionID,
		Number:        NewOrderNumber(),
		CustomerName:  info.Name,
		Email:         info.Email,
		WalletAddress: info.WalletAddress,
		Telegram:      info.Telegram,
		XHandle:       info.XHandle,
		Discord:       info.Discord,
		Total:         summary.Total,
		Currency:      session.Currency,
		Status:        model.OrderStatusPending,
	}
	created, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := u.sessions.UpdateCustomer(ctx, sessionID, info, created.Number); err != nil {
		return nil, err
	}
	if err := u.sessions.UpdateStep(ctx, sessionID, model.StepAwaitingPayment); err != nil {
		return nil, err
	}

	u.logger.Info("order created",
		slog.String("order", created.Number),
		slog.String("currency", string(created.Currency)),
		slog.String("total", created.Total.StringFixed(2)),
	)
	return created, nil
}

// Back returns from the payment step to customer info, unless a settlement
// attempt is in flight.
func (u *CheckoutUseCase) Back(ctx context.Context, sessionID string) error {
	session, err := u.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return err
	}
	if !model.CanStep(session.Step, model.StepEnteringInfo) {
		return domainErrors.ErrInvalidTransition
	}
	if session.SettlementInFlight() {
		return domainErrors.ErrSettlementInProgress
	}
	return u.sessions.UpdateStep(ctx, sessionID, model.StepEnteringInfo)
}

// PaymentRequest builds the immutable request for one settlement attempt of
// the session's order.
func (u *CheckoutUseCase) PaymentRequest(ctx context.Context, sessionID, recipient, projectTokenAddress string) (*model.PaymentRequest, error) {
	session, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != model.StepAwaitingPayment || session.OrderNumber == "" {
		return nil, domainErrors.ErrOrderNotReady
	}
	order, err := u.orders.GetByNumber(ctx, session.OrderNumber)
	if err != nil {
		return nil, err
	}

	// The stable token rides on its well-known contract; only the project
	// token carries an explicit address, as the storefront passes it.
	tokenAddress := ""
	if order.Currency == model.CurrencyWFT {
		tokenAddress = projectTokenAddress
	}

	return &model.PaymentRequest{
		Amount:       order.Total,
		Currency:     order.Currency,
		Recipient:    recipient,
		TokenAddress: tokenAddress,
		Payer:        order.WalletAddress,
		OrderNumber:  order.Number,
	}, nil
}

// Finalize consumes the settlement completion event: the hash is attached to
// the order, the cart is cleared and the session reaches its terminal step.
func (u *CheckoutUseCase) Finalize(ctx context.Context, sessionID, txHash string) (*model.Order, error) {
	session, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !model.CanStep(session.Step, model.StepConfirmed) {
		return nil, domainErrors.ErrInvalidTransition
	}
	order, err := u.orders.GetByNumber(ctx, session.OrderNumber)
	if err != nil {
		return nil, err
	}

	if err := u.orders.Finalize(ctx, order.ID, txHash); err != nil {
		return nil, err
	}
	if err := u.carts.Clear(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := u.sessions.UpdateStep(ctx, sessionID, model.StepConfirmed); err != nil {
		return nil, err
	}

	order.TxHash = txHash
	order.Status = model.OrderStatusCompleted
	u.logger.Info("order finalized",
		slog.String("order", order.Number),
		slog.String("tx_hash", txHash),
	)
	return order, nil
}

// StartOnramp records that the onramp view is shown and returns the currency
// label the widget should be asked for.
func (u *CheckoutUseCase) StartOnramp(ctx context.Context, sessionID string) (model.Currency, error) {
	session, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.Step != model.StepAwaitingPayment {
		return "", domainErrors.ErrOrderNotReady
	}
	if err := u.sessions.SetOnrampActive(ctx, sessionID, true); err != nil {
		return "", err
	}
	return session.Currency, nil
}

// CompleteOnramp handles the onramp success callback: the view is dismissed
// and checkout returns to its own payment UI.
func (u *CheckoutUseCase) CompleteOnramp(ctx context.Context, sessionID string) error {
	if _, err := u.sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	return u.sessions.SetOnrampActive(ctx, sessionID, false)
}

// OrderByNumber returns a previously created order.
func (u *CheckoutUseCase) OrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	return u.orders.GetByNumber(ctx, number)
}

// ExpiredSessions returns abandoned sessions to sweep.
func (u *CheckoutUseCase) ExpiredSessions(ctx context.Context, cutoff time.Time, limit int) ([]model.CheckoutSession, error) {
	return u.sessions.SelectExpiredBatch(ctx, cutoff, limit)
}

// RemoveSession drops an abandoned session together with its cart.
func (u *CheckoutUseCase) RemoveSession(ctx context.Context, sessionID string) error {
	if err := u.carts.Clear(ctx, sessionID); err != nil {
		return err
	}
	return u.sessions.Delete(ctx, sessionID)
}
