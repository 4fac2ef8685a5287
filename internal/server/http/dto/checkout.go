package dto

// SessionResponse describes the current checkout session state.
type SessionResponse struct {
	Step         int    `json:"step"`
	Currency     string `json:"currency"`
	OrderNumber  string `json:"order_number,omitempty"`
	Approved     bool   `json:"approved"`
	OnrampActive bool   `json:"onramp_active"`
}

// SelectCurrencyRequest picks the settlement currency.
type SelectCurrencyRequest struct {
	Currency string `json:"currency"`
}

// CustomerInfoRequest carries the customer-info step payload.
type CustomerInfoRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	WalletAddress   string `json:"wallet_address"`
	Telegram        string `json:"telegram"`
	XHandle         string `json:"x_handle"`
	Discord         string `json:"discord"`
	WalletConnected bool   `json:"wallet_connected"`
}

// ValidationErrorResponse reports per-field validation failures.
type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// OnrampResponse tells the client which currency the onramp widget should buy.
type OnrampResponse struct {
	Currency string `json:"currency"`
}
