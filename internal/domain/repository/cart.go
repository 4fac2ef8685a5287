package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wildfire-market/checkout/internal/domain/model"
)

// CartRepository describes persistence operations with cart lines.
type CartRepository interface {
	// Upsert adds a product to the session cart or increases its quantity.
	Upsert(ctx context.Context, sessionID, productID, name string, unitPrice decimal.Decimal, quantity int) (*model.CartLine, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error
	Remove(ctx context.Context, sessionID, productID string) error
	ListBySession(ctx context.Context, sessionID string) ([]model.CartLine, error)
	Clear(ctx context.Context, sessionID string) error
}
