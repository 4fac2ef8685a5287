package repository

import (
	"context"

	"github.com/wildfire-market/checkout/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	GetBySession(ctx context.Context, sessionID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	// Finalize attaches the settlement transaction hash and marks the order
	// completed.
	Finalize(ctx context.Context, orderID int64, txHash string) error
}
