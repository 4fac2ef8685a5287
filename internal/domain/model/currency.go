package model

// Currency identifies a settlement token.
type Currency string

const (
	// CurrencyUSDC is the stable token, pegged 1:1 to USD.
	CurrencyUSDC Currency = "USDC"
	// CurrencyWFT is the Wildfire project token, priced by a configured USD rate.
	CurrencyWFT Currency = "WFT"
)

// Valid reports whether the currency is one of the supported settlement tokens.
func (c Currency) Valid() bool {
	return c == CurrencyUSDC || c == CurrencyWFT
}

// Decimals returns the token's smallest-unit precision.
func (c Currency) Decimals() int32 {
	if c == CurrencyUSDC {
		return 6
	}
	return 18
}
