package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// SettlementStatus describes the state of the payment settlement engine for a
// single session.
type SettlementStatus string

const (
	SettlementIdle      SettlementStatus = "IDLE"
	SettlementApproving SettlementStatus = "APPROVING"
	SettlementSending   SettlementStatus = "SENDING"
	SettlementCompleted SettlementStatus = "COMPLETED"
	SettlementFailed    SettlementStatus = "FAILED"
)

// settlementTransitions enumerates the permitted settlement moves. A failed
// attempt may be retried, a completed one is terminal. Re-entering APPROVING
// or SENDING while already there is not in the table and is therefore
// rejected, which serializes wallet access without any locking.
var settlementTransitions = map[SettlementStatus][]SettlementStatus{
	SettlementIdle:      {SettlementApproving, SettlementSending},
	SettlementApproving: {SettlementIdle, SettlementFailed},
	SettlementSending:   {SettlementCompleted, SettlementFailed},
	SettlementFailed:    {SettlementApproving, SettlementSending},
	SettlementCompleted: {},
}

// CanSettle reports whether a settlement status transition is permitted.
func CanSettle(from, to SettlementStatus) bool {
	for _, next := range settlementTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentRequest captures everything needed for one settlement attempt.
// It is immutable once built; a retry builds a fresh request.
type PaymentRequest struct {
	Amount       decimal.Decimal
	Currency     Currency
	Recipient    string
	TokenAddress string
	Payer        string
	OrderNumber  string
}

// AllowanceRecord is the outcome of an on-chain allowance query. It is derived
// data and never persisted.
type AllowanceRecord struct {
	Payer     string
	Spender   string
	Allowance *big.Int
	Required  *big.Int
}

// Sufficient reports whether the existing allowance covers the required amount.
func (r AllowanceRecord) Sufficient() bool {
	if r.Allowance == nil || r.Required == nil {
		return false
	}
	return r.Allowance.Cmp(r.Required) >= 0
}

// AllowanceStatus is the caller-facing outcome of an allowance check. Amounts
// are decimal strings in the token's smallest unit.
type AllowanceStatus struct {
	ApprovalRequired bool
	Approved         bool
	Allowance        string
	Required         string
}
