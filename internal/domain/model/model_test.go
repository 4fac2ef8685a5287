package model

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrencyDecimals(t *testing.T) {
	if got := CurrencyUSDC.Decimals(); got != 6 {
		t.Fatalf("expected 6 decimals for USDC, got %d", got)
	}
	if got := CurrencyWFT.Decimals(); got != 18 {
		t.Fatalf("expected 18 decimals for WFT, got %d", got)
	}
	if Currency("DOGE").Valid() {
		t.Fatal("unexpected currency accepted")
	}
}

func TestCanStep(t *testing.T) {
	allowed := [][2]CheckoutStep{
		{StepReviewingCart, StepEnteringInfo},
		{StepEnteringInfo, StepAwaitingPayment},
		{StepEnteringInfo, StepReviewingCart},
		{StepAwaitingPayment, StepEnteringInfo},
		{StepAwaitingPayment, StepConfirmed},
	}
	for _, tr := range allowed {
		if !CanStep(tr[0], tr[1]) {
			t.Fatalf("expected step %d -> %d to be allowed", tr[0], tr[1])
		}
	}
	forbidden := [][2]CheckoutStep{
		{StepReviewingCart, StepAwaitingPayment},
		{StepReviewingCart, StepConfirmed},
		{StepConfirmed, StepReviewingCart},
		{StepConfirmed, StepAwaitingPayment},
	}
	for _, tr := range forbidden {
		if CanStep(tr[0], tr[1]) {
			t.Fatalf("expected step %d -> %d to be forbidden", tr[0], tr[1])
		}
	}
}

func TestCanSettle(t *testing.T) {
	if !CanSettle(SettlementIdle, SettlementApproving) {
		t.Fatal("idle -> approving should be allowed")
	}
	if !CanSettle(SettlementFailed, SettlementSending) {
		t.Fatal("failed -> sending retry should be allowed")
	}
	if CanSettle(SettlementApproving, SettlementApproving) {
		t.Fatal("re-entering approving should be rejected")
	}
	if CanSettle(SettlementSending, SettlementSending) {
		t.Fatal("re-entering sending should be rejected")
	}
	if CanSettle(SettlementCompleted, SettlementSending) {
		t.Fatal("completed is terminal")
	}
}

func TestSummarizeCartAppliesProjectDiscount(t *testing.T) {
	lines := []CartLine{
		{UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
		{UnitPrice: decimal.RequireFromString("60.02"), Quantity: 1},
	}

	usdc := SummarizeCart(lines, CurrencyUSDC)
	if !usdc.Subtotal.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("unexpected subtotal %s", usdc.Subtotal)
	}
	if !usdc.Discount.IsZero() {
		t.Fatalf("expected no discount for USDC, got %s", usdc.Discount)
	}
	if !usdc.Total.Equal(usdc.Subtotal) {
		t.Fatalf("expected total to equal subtotal, got %s", usdc.Total)
	}

	wft := SummarizeCart(lines, CurrencyWFT)
	if !wft.Discount.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected 10%% discount, got %s", wft.Discount)
	}
	if !wft.Total.Equal(decimal.RequireFromString("90.00")) {
		t.Fatalf("unexpected total %s", wft.Total)
	}
}

func TestAllowanceRecordSufficient(t *testing.T) {
	required := big.NewInt(100_000000)

	equal := AllowanceRecord{Allowance: big.NewInt(100_000000), Required: required}
	if !equal.Sufficient() {
		t.Fatal("allowance equal to required must be sufficient")
	}

	below := AllowanceRecord{Allowance: big.NewInt(99_999999), Required: required}
	if below.Sufficient() {
		t.Fatal("allowance one below required must be insufficient")
	}

	missing := AllowanceRecord{Required: required}
	if missing.Sufficient() {
		t.Fatal("missing allowance must be insufficient")
	}
}
