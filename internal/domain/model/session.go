package model

import "time"

// CheckoutStep numbers the stages of the checkout flow.
type CheckoutStep int

const (
	StepReviewingCart   CheckoutStep = 1
	StepEnteringInfo    CheckoutStep = 2
	StepAwaitingPayment CheckoutStep = 3
	StepConfirmed       CheckoutStep = 4
)

// checkoutTransitions is the set of permitted step transitions. Moving from the
// payment step back to customer info is additionally gated on settlement state
// by the checkout use case.
var checkoutTransitions = map[CheckoutStep][]CheckoutStep{
	StepReviewingCart:   {StepEnteringInfo},
	StepEnteringInfo:    {StepReviewingCart, StepAwaitingPayment},
	StepAwaitingPayment: {StepEnteringInfo, StepConfirmed},
	StepConfirmed:       {},
}

// CanStep reports whether moving from one checkout step to another is allowed.
func CanStep(from, to CheckoutStep) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CustomerInfo carries the contact fields collected during checkout.
type CustomerInfo struct {
	Name          string
	Email         string
	WalletAddress string
	Telegram      string
	XHandle       string
	Discord       string
}

// HasSocialContact reports whether at least one social handle is filled in.
func (i CustomerInfo) HasSocialContact() bool {
	return i.Telegram != "" || i.XHandle != "" || i.Discord != ""
}

// CheckoutSession is the per-visitor checkout state. A session owns the cart,
// the chosen settlement currency and the active settlement attempt.
type CheckoutSession struct {
	ID           string
	Step         CheckoutStep
	Currency     Currency
	Customer     CustomerInfo
	OrderNumber  string
	Settlement   SettlementStatus
	Approved     bool
	OnrampActive bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SettlementInFlight reports whether a wallet operation is currently awaiting
// the provider's resolution for this session.
func (s CheckoutSession) SettlementInFlight() bool {
	return s.Settlement == SettlementApproving || s.Settlement == SettlementSending
}
