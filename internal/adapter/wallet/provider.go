package wallet

import (
	"context"

	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
)

// Provider is the injected wallet capability the settlement engine talks to.
// Every method is a suspension point: callers await one operation before
// starting the next.
type Provider interface {
	// RequestAccess asks the wallet for its accounts. It must succeed before
	// any other call.
	RequestAccess(ctx context.Context) ([]string, error)
	// ChainID returns the connected chain identifier. Informational.
	ChainID(ctx context.Context) (string, error)
	// Call performs a read-only contract call and returns the result hex.
	Call(ctx context.Context, to, data string) (string, error)
	// SendTransaction submits a state-changing call and returns the
	// transaction hash.
	SendTransaction(ctx context.Context, from, to, data string) (string, error)
}

// Unavailable is the provider used when no wallet RPC endpoint is configured.
// Every operation fails with ErrProviderUnavailable before any call attempt,
// keeping provider absence distinct from call-level failures.
type Unavailable struct{}

func (Unavailable) RequestAccess(context.Context) ([]string, error) {
	return nil, domainErrors.ErrProviderUnavailable
}

func (Unavailable) ChainID(context.Context) (string, error) {
	return "", domainErrors.ErrProviderUnavailable
}

func (Unavailable) Call(context.Context, string, string) (string, error) {
	return "", domainErrors.ErrProviderUnavailable
}

func (Unavailable) SendTransaction(context.Context, string, string, string) (string, error) {
	return "", domainErrors.ErrProviderUnavailable
}
