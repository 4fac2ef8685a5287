package token

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/wildfire-market/checkout/internal/domain/model"
)

// Calculator converts fiat-denominated prices into token quantities and their
// smallest-unit integer representation. Scaling is exact: amounts are shifted
// by the token's decimal precision in decimal arithmetic and floored, so large
// totals do not lose precision to floating point.
type Calculator struct {
	projectRate decimal.Decimal
}

// NewCalculator creates a calculator with the fiat-per-WFT exchange rate.
func NewCalculator(projectRate decimal.Decimal) (*Calculator, error) {
	if !projectRate.IsPositive() {
		return nil, fmt.Errorf("project token rate must be positive, got %s", projectRate)
	}
	return &Calculator{projectRate: projectRate}, nil
}

// TokenAmount returns the token quantity for the fiat amount. USDC converts
// 1:1, WFT divides by the configured rate.
func (c *Calculator) TokenAmount(fiat decimal.Decimal, currency model.Currency) decimal.Decimal {
	if currency == model.CurrencyWFT {
		return fiat.DivRound(c.projectRate, 30)
	}
	return fiat
}

// SmallestUnit returns the token quantity scaled by the currency's decimals
// and floored to an integer.
func (c *Calculator) SmallestUnit(fiat decimal.Decimal, currency model.Currency) *big.Int {
	return c.TokenAmount(fiat, currency).Shift(currency.Decimals()).Floor().BigInt()
}

// SmallestUnitHex returns the smallest-unit amount as a 0x-prefixed
// hexadecimal string. A zero amount yields "0x0".
func (c *Calculator) SmallestUnitHex(fiat decimal.Decimal, currency model.Currency) string {
	return "0x" + c.SmallestUnit(fiat, currency).Text(16)
}
