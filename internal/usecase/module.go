package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/wildfire-market/checkout/internal/adapter/wallet"
	"github.com/wildfire-market/checkout/internal/config"
	"github.com/wildfire-market/checkout/internal/domain/repository"
	"github.com/wildfire-market/checkout/internal/pkg/token"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewCartUseCase,
	NewCheckoutUseCase,
	NewAllowanceUseCase,
	newCalculator,
	newSettlementEngine,
)

func newCalculator(cfg *config.Config) (*token.Calculator, error) {
	return token.NewCalculator(cfg.ProjectTokenRate)
}

type engineParams struct {
	fx.In

	Provider wallet.Provider
	Calc     *token.Calculator
	Sessions repository.SessionRepository
	Orders   repository.OrderRepository
	Config   *config.Config
	Logger   *slog.Logger
}

func newSettlementEngine(p engineParams) *SettlementEngine {
	return NewSettlementEngine(p.Provider, p.Calc, p.Sessions, p.Orders, SettlementAddresses{
		Recipient:    p.Config.RecipientAddress,
		StableToken:  p.Config.StableTokenAddress,
		ProjectToken: p.Config.ProjectTokenAddress,
	}, p.Logger)
}
