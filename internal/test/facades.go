package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wildfire-market/checkout/internal/domain/model"
)

// CheckoutFacadeStub provides controllable behaviour for HTTP handlers.
// Responses default to plausible success values; individual functions can be
// overridden per test.
type CheckoutFacadeStub struct {
	SessionFn        func(context.Context, string) (*model.CheckoutSession, error)
	CartLinesFn      func(context.Context, string) ([]model.CartLine, model.CartSummary, error)
	AddCartItemFn    func(context.Context, string, string, string, decimal.Decimal, int) (*model.CartLine, error)
	UpdateQuantityFn func(context.Context, string, string, int) error
	RemoveCartItemFn func(context.Context, string, string) error
	ClearCartFn      func(context.Context, string) error
	SelectCurrencyFn func(context.Context, string, model.Currency) error
	BeginFn          func(context.Context, string) error
	SubmitCustomerFn func(context.Context, string, model.CustomerInfo, bool) (*model.Order, error)
	BackFn           func(context.Context, string) error
	CheckAllowanceFn func(context.Context, string) (*model.AllowanceStatus, error)
	ApproveFn        func(context.Context, string) error
	PayFn            func(context.Context, string) (*model.Order, error)
	StartOnrampFn    func(context.Context, string) (model.Currency, error)
	CompleteOnrampFn func(context.Context, string) error
	OrderByNumberFn  func(context.Context, string) (*model.Order, error)
}

func (s *CheckoutFacadeStub) Session(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	if s.SessionFn != nil {
		return s.SessionFn(ctx, sessionID)
	}
	return &model.CheckoutSession{ID: sessionID, Step: model.StepReviewingCart, Currency: model.CurrencyUSDC, Settlement: model.SettlementIdle}, nil
}

func (s *CheckoutFacadeStub) CartLines(ctx context.Context, sessionID string) ([]model.CartLine, model.CartSummary, error) {
	if s.CartLinesFn != nil {
		return s.CartLinesFn(ctx, sessionID)
	}
	return nil, model.CartSummary{Subtotal: decimal.Zero, Discount: decimal.Zero, Total: decimal.Zero}, nil
}

func (s *CheckoutFacadeStub) AddCartItem(ctx context.Context, sessionID, productID, name string, unitPrice decimal.Decimal, quantity int) (*model.CartLine, error) {
	if s.AddCartItemFn != nil {
		return s.AddCartItemFn(ctx, sessionID, productID, name, unitPrice, quantity)
	}
	return &model.CartLine{SessionID: sessionID, ProductID: productID, ProductName: name, UnitPrice: unitPrice, Quantity: quantity}, nil
}

func (s *CheckoutFacadeStub) UpdateCartQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	if s.UpdateQuantityFn != nil {
		return s.UpdateQuantityFn(ctx, sessionID, productID, quantity)
	}
	return nil
}

func (s *CheckoutFacadeStub) RemoveCartItem(ctx context.Context, sessionID, productID string) error {
	if s.RemoveCartItemFn != nil {
		return s.RemoveCartItemFn(ctx, sessionID, productID)
	}
	return nil
}

func (s *CheckoutFacadeStub) ClearCart(ctx context.Context, sessionID string) error {
	if s.ClearCartFn != nil {
		return s.ClearCartFn(ctx, sessionID)
	}
	return nil
}

func (s *CheckoutFacadeStub) SelectCurrency(ctx context.Context, sessionID string, currency model.Currency) error {
	if s.SelectCurrencyFn != nil {
		return s.SelectCurrencyFn(ctx, sessionID, currency)
	}
	return nil
}

func (s *CheckoutFacadeStub) BeginCheckout(ctx context.Context, sessionID string) error {
	if s.BeginFn != nil {
		return s.BeginFn(ctx, sessionID)
	}
	return nil
}

func (s *CheckoutFacadeStub) SubmitCustomerInfo(ctx context.Context, sessionID string, info model.CustomerInfo, walletConnected bool) (*model.Order, error) {
	if s.SubmitCustomerFn != nil {
		return s.SubmitCustomerFn(ctx, sessionID, info, walletConnected)
	}
	return &model.Order{Number: "WF-000001-1", Status: model.OrderStatusPending, Total: decimal.RequireFromString("100"), Currency: model.CurrencyUSDC}, nil
}

func (s *CheckoutFacadeStub) BackToInfo(ctx context.Context, sessionID string) error {
	if s.BackFn != nil {
		return s.BackFn(ctx, sessionID)
	}
	return nil
}

func (s *CheckoutFacadeStub) CheckAllowance(ctx context.Context, sessionID string) (*model.AllowanceStatus, error) {
	if s.CheckAllowanceFn != nil {
		return s.CheckAllowanceFn(ctx, sessionID)
	}
	return &model.AllowanceStatus{ApprovalRequired: true, Required: "100000000"}, nil
}

func (s *CheckoutFacadeStub) Approve(ctx context.Context, sessionID string) error {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, sessionID)
	}
	return nil
}

func (s *CheckoutFacadeStub) Pay(ctx context.Context, sessionID string) (*model.Order, error) {
	if s.PayFn != nil {
		return s.PayFn(ctx, sessionID)
	}
	return &model.Order{Number: "WF-000001-1", Status: model.OrderStatusCompleted, TxHash: "0xabc123", Total: decimal.RequireFromString("100"), Currency: model.CurrencyUSDC}, nil
}

func (s *CheckoutFacadeStub) StartOnramp(ctx context.Context, sessionID string) (model.Currency, error) {
	if s.StartOnrampFn != nil {
		return s.StartOnrampFn(ctx, sessionID)
	}
	return model.CurrencyUSDC, nil
}

func (s *CheckoutFacadeStub) CompleteOnramp(ctx context.Context, sessionID string) error {
	if s.CompleteOnrampFn != nil {
		return s.CompleteOnrampFn(ctx, sessionID)
	}
	return nil
}

func (s *CheckoutFacadeStub) OrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.OrderByNumberFn != nil {
		return s.OrderByNumberFn(ctx, number)
	}
	return &model.Order{Number: number, Status: model.OrderStatusCompleted, Total: decimal.RequireFromString("100"), Currency: model.CurrencyUSDC}, nil
}

// SweeperFacadeStub mimics sweeper interactions with the checkout facade.
type SweeperFacadeStub struct {
	Sessions   [][]model.CheckoutSession
	SessionsFn func(context.Context, int) ([]model.CheckoutSession, error)
	RemoveFn   func(context.Context, string) error
	Removed    []string
	mu         sync.Mutex
	callCount  int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SweeperFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweeperFacadeStub) Unlock() { s.mu.Unlock() }

// SessionsToSweep returns batches from configured queue.
func (s *SweeperFacadeStub) SessionsToSweep(ctx context.Context, limit int) ([]model.CheckoutSession, error) {
	if s.SessionsFn != nil {
		return s.SessionsFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.callCount, 1)
	if int(call) <= len(s.Sessions) {
		return s.Sessions[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// RemoveSession records removal requests.
func (s *SweeperFacadeStub) RemoveSession(ctx context.Context, sessionID string) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, sessionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Removed = append(s.Removed, sessionID)
	return nil
}
