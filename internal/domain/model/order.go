package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the settlement lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusFailed     OrderStatus = "FAILED"
)

// Order describes a checkout order awaiting or holding on-chain settlement.
type Order struct {
	ID            int64
	SessionID     string
	Number        string
	CustomerName  string
	Email         string
	WalletAddress string
	Telegram      string
	XHandle       string
	Discord       string
	Total         decimal.Decimal
	Currency      Currency
	TxHash        string
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
