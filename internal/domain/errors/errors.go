package errors

import "errors"

var (
	ErrAlreadyExists        = errors.New("already exists")
	ErrNotFound             = errors.New("not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrCheckoutLocked       = errors.New("checkout already in progress")
	ErrInvalidCurrency      = errors.New("invalid settlement currency")
	ErrCurrencyLocked       = errors.New("currency locked for payment")
	ErrWalletRequired       = errors.New("wallet address required")
	ErrOrderNotReady        = errors.New("order not ready for settlement")
	ErrProviderUnavailable  = errors.New("wallet provider unavailable")
	ErrAllowanceQueryFailed = errors.New("allowance query failed")
	ErrApprovalFailed       = errors.New("token approval failed")
	ErrTransferFailed       = errors.New("token transfer failed")
	ErrSettlementInProgress = errors.New("settlement already in progress")
	ErrInvalidTransition    = errors.New("invalid state transition")
)
