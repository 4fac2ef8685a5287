package di

import (
	"go.uber.org/fx"

	"github.com/wildfire-market/checkout/internal/adapter/wallet"
	"github.com/wildfire-market/checkout/internal/app"
	"github.com/wildfire-market/checkout/internal/config"
	"github.com/wildfire-market/checkout/internal/logger"
	"github.com/wildfire-market/checkout/internal/server/http/handlers"
	"github.com/wildfire-market/checkout/internal/server/http/router"
	"github.com/wildfire-market/checkout/internal/storage/postgres"
	"github.com/wildfire-market/checkout/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		wallet.Module,
		usecase.Module,
		fx.Provide(func(facade *app.CheckoutFacade) handlers.CheckoutFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
