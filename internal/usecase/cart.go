package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/domain/model"
	"github.com/wildfire-market/checkout/internal/domain/repository"
)

// CartUseCase manages the session cart. Mutations are only allowed while the
// session is still reviewing the cart, so totals cannot drift from an order
// created at the payment step.
type CartUseCase struct {
	carts    repository.CartRepository
	sessions repository.SessionRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, sessions repository.SessionRepository) *CartUseCase {
	return &CartUseCase{carts: carts, sessions: sessions}
}

// Add puts a product into the cart or increases its quantity.
func (u *CartUseCase) Add(ctx context.Context, sessionID, productID, name string, unitPrice decimal.Decimal, quantity int) (*model.CartLine, error) {
	if quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, domainErrors.ErrInvalidPrice
	}
	if err := u.ensureMutable(ctx, sessionID); err != nil {
		return nil, err
	}
	return u.carts.Upsert(ctx, sessionID, productID, name, unitPrice, quantity)
}

// UpdateQuantity sets a new quantity for a cart line. A quantity below one
// removes the line, matching the storefront's decrement control.
func (u *CartUseCase) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	if err := u.ensureMutable(ctx, sessionID); err != nil {
		return err
	}
	if quantity < 1 {
		return u.carts.Remove(ctx, sessionID, productID)
	}
	return u.carts.UpdateQuantity(ctx, sessionID, productID, quantity)
}

// Remove deletes a cart line.
func (u *CartUseCase) Remove(ctx context.Context, sessionID, productID string) error {
	if err := u.ensureMutable(ctx, sessionID); err != nil {
		return err
	}
	return u.carts.Remove(ctx, sessionID, productID)
}

// Clear empties the session cart.
func (u *CartUseCase) Clear(ctx context.Context, sessionID string) error {
	if err := u.ensureMutable(ctx, sessionID); err != nil {
		return err
	}
	return u.carts.Clear(ctx, sessionID)
}

// List returns cart lines with totals for the session's settlement currency.
func (u *CartUseCase) List(ctx context.Context, sessionID string) ([]model.CartLine, model.CartSummary, error) {
	session, err := u.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, model.CartSummary{}, err
	}
	lines, err := u.carts.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, model.CartSummary{}, err
	}
	return lines, model.SummarizeCart(lines, session.Currency), nil
}

func (u *CartUseCase) ensureMutable(ctx context.Context, sessionID string) error {
	session, err := u.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Step != model.StepReviewingCart {
		return domainErrors.ErrCheckoutLocked
	}
	return nil
}
