package wallet

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/wildfire-market/checkout/internal/config"
)

// Module exposes the wallet provider implementation to the fx graph.
var Module = fx.Provide(newProvider)

type providerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newProvider(p providerParams) (Provider, error) {
	if p.Config.WalletRPCAddress == "" {
		p.Logger.Warn("wallet rpc address not configured, settlement disabled")
		return Unavailable{}, nil
	}
	return NewRPCClient(p.Config.WalletRPCAddress, p.Logger)
}
