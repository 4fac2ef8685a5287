package repository

import (
	"context"
	"time"

	"github.com/wildfire-market/checkout/internal/domain/model"
)

// SessionRepository describes persistence operations with checkout sessions.
type SessionRepository interface {
	// GetOrCreate returns the session with the given id, creating it at the
	// cart-review step when it does not exist yet.
	GetOrCreate(ctx context.Context, id string) (*model.CheckoutSession, error)
	Get(ctx context.Context, id string) (*model.CheckoutSession, error)
	UpdateStep(ctx context.Context, id string, step model.CheckoutStep) error
	UpdateCurrency(ctx context.Context, id string, currency model.Currency) error
	UpdateCustomer(ctx context.Context, id string, info model.CustomerInfo, orderNumber string) error
	// TransitionSettlement moves the settlement status from one state to
	// another. It returns domain ErrSettlementInProgress when the row is not
	// in the expected source state, which serializes settlement attempts.
	TransitionSettlement(ctx context.Context, id string, from, to model.SettlementStatus) error
	SetApproved(ctx context.Context, id string, approved bool) error
	SetOnrampActive(ctx context.Context, id string, active bool) error
	// SelectExpiredBatch returns sessions idle since before the cutoff that
	// never reached confirmation and have no settlement in flight.
	SelectExpiredBatch(ctx context.Context, cutoff time.Time, limit int) ([]model.CheckoutSession, error)
	Delete(ctx context.Context, id string) error
}
