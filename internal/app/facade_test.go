package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wildfire-market/checkout/internal/config"
	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/domain/model"
	"github.com/wildfire-market/checkout/internal/pkg/token"
	testhelpers "github.com/wildfire-market/checkout/internal/test"
	"github.com/wildfire-market/checkout/internal/usecase"
)

const (
	testPayer     = "0x1111111111111111111111111111111111111111"
	testRecipient = "0x2222222222222222222222222222222222222222"
	testStable    = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
	testProject   = "0x3333333333333333333333333333333333333333"
)

func testConfig() *config.Config {
	return &config.Config{
		RecipientAddress:    testRecipient,
		StableTokenAddress:  testStable,
		ProjectTokenAddress: testProject,
		ProjectTokenRate:    decimal.RequireFromString("0.0002"),
		SessionTTL:          time.Hour,
	}
}

func newFacade(t *testing.T, provider *testhelpers.ProviderStub) (*CheckoutFacade, *testhelpers.SessionRepositoryStub, *testhelpers.OrderRepositoryStub) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := testConfig()

	sessions := testhelpers.NewSessionRepositoryStub()
	carts := testhelpers.NewCartRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub()

	calc, err := token.NewCalculator(cfg.ProjectTokenRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine := usecase.NewSettlementEngine(provider, calc, sessions, orders, usecase.SettlementAddresses{
		Recipient:    cfg.RecipientAddress,
		StableToken:  cfg.StableTokenAddress,
		ProjectToken: cfg.ProjectTokenAddress,
	}, logger)

	facade := NewCheckoutFacade(
		usecase.NewCartUseCase(carts, sessions),
		usecase.NewCheckoutUseCase(sessions, carts, orders, logger),
		usecase.NewAllowanceUseCase(provider, logger),
		engine,
		cfg,
		logger,
	)
	return facade, sessions, orders
}

func customerInfo() model.CustomerInfo {
	return model.CustomerInfo{
		Name:          "Alice",
		Email:         "alice@x.io",
		WalletAddress: testPayer,
		Telegram:      "alice",
	}
}

func reachPayment(t *testing.T, facade *CheckoutFacade) *model.Order {
	t.Helper()
	ctx := context.Background()
	if _, err := facade.AddCartItem(ctx, "s1", "hoodie", "Wildfire Hoodie", decimal.RequireFromString("100"), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := facade.BeginCheckout(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, err := facade.SubmitCustomerInfo(ctx, "s1", customerInfo(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return order
}

func TestCheckoutFacadeFullPaymentFlow(t *testing.T) {
	provider := &testhelpers.ProviderStub{Accounts: []string{testPayer}}
	facade, sessions, _ := newFacade(t, provider)
	ctx := context.Background()

	order := reachPayment(t, facade)

	status, err := facade.CheckAllowance(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.ApprovalRequired {
		t.Fatal("expected approval to be required with zero allowance")
	}

	if err := facade.Approve(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paid, err := facade.Pay(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid.Number != order.Number || paid.TxHash != "0xabc123" || paid.Status != model.OrderStatusCompleted {
		t.Fatalf("unexpected paid order %+v", paid)
	}

	session, _ := sessions.Get(ctx, "s1")
	if session.Step != model.StepConfirmed {
		t.Fatalf("expected confirmed session, got step %d", session.Step)
	}

	lines, _, err := facade.CartLines(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected cart cleared, got %d lines", len(lines))
	}
}

func TestCheckoutFacadeAllowanceFailSafe(t *testing.T) {
	provider := &testhelpers.ProviderStub{
		Accounts: []string{testPayer},
		CallFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("rpc glitch")
		},
	}
	facade, _, _ := newFacade(t, provider)
	reachPayment(t, facade)

	status, err := facade.CheckAllowance(context.Background(), "s1")
	if err != nil {
		t.Fatalf("expected fail-safe result, got error: %v", err)
	}
	if !status.ApprovalRequired {
		t.Fatal("a failed allowance query must require approval")
	}
}

func TestCheckoutFacadeAllowanceSufficientSkipsApproval(t *testing.T) {
	provider := &testhelpers.ProviderStub{
		Accounts: []string{testPayer},
		CallFn: func(context.Context, string, string) (string, error) {
			// Far above the 100 USDC requirement.
			return "0xffffffffffffffff", nil
		},
	}
	facade, _, _ := newFacade(t, provider)
	reachPayment(t, facade)

	status, err := facade.CheckAllowance(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.ApprovalRequired {
		t.Fatal("sufficient allowance must not require approval")
	}
}

func TestCheckoutFacadeCheckAllowanceBeforePaymentStep(t *testing.T) {
	facade, _, _ := newFacade(t, &testhelpers.ProviderStub{})

	_, err := facade.CheckAllowance(context.Background(), "s1")
	if !errors.Is(err, domainErrors.ErrNotFound) && !errors.Is(err, domainErrors.ErrOrderNotReady) {
		t.Fatalf("expected not-ready error, got %v", err)
	}
}

func TestCheckoutFacadeSweep(t *testing.T) {
	facade, sessions, _ := newFacade(t, &testhelpers.ProviderStub{})
	ctx := context.Background()

	if _, err := facade.Session(ctx, "old"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expired, err := facade.SessionsToSweep(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A session touched just now sits well inside the TTL.
	if len(expired) != 0 {
		t.Fatalf("expected no fresh session to expire, got %d", len(expired))
	}

	if err := facade.RemoveSession(ctx, "old"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sessions.Get(ctx, "old"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected session removed, got %v", err)
	}
}

func TestCheckoutFacadeCartAndCurrency(t *testing.T) {
	facade, _, _ := newFacade(t, &testhelpers.ProviderStub{})
	ctx := context.Background()

	if err := facade.SelectCurrency(ctx, "s1", model.CurrencyWFT); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := facade.AddCartItem(ctx, "s1", "p", "P", decimal.RequireFromString("100"), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, summary, err := facade.CartLines(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Total.Equal(decimal.RequireFromString("90.00")) {
		t.Fatalf("expected discounted total 90.00, got %s", summary.Total)
	}

	if err := facade.UpdateCartQuantity(ctx, "s1", "p", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines, _, _ := facade.CartLines(ctx, "s1")
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}
}
