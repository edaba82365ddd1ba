package strategy

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/strategy/service"
	tinvest "signal_bot/internal/modules/tinvest/service"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			service.NewRegistryFromConfig, // *service.Registry
			func(c *tinvest.Client) *service.LocalEMA {
				return service.NewLocalEMA(c)
			},
		),
	)
}
