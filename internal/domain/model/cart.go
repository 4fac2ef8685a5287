package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectTokenDiscount is the fraction taken off the cart total when paying with WFT.
var ProjectTokenDiscount = decimal.NewFromFloat(0.10)

// CartLine is a single product position in a session's cart.
type CartLine struct {
	ID          int64
	SessionID   string
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	AddedAt     time.Time
}

// LineTotal returns unit price multiplied by quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSummary aggregates cart totals in fiat units.
type CartSummary struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// SummarizeCart computes cart totals, applying the project-token discount when
// the session settles in WFT. Amounts are rounded to cents.
func SummarizeCart(lines []CartLine, currency Currency) CartSummary {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	discount := decimal.Zero
	if currency == CurrencyWFT {
		discount = subtotal.Mul(ProjectTokenDiscount)
	}
	subtotal = subtotal.Round(2)
	discount = discount.Round(2)
	return CartSummary{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}
}
