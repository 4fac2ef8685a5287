package dto

import "time"

// OrderResponse describes an order and its settlement outcome.
type OrderResponse struct {
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	Total     string    `json:"total"`
	Currency  string    `json:"currency"`
	TxHash    string    `json:"tx_hash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
