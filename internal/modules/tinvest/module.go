package tinvest

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/tinvest/service"
)

func Module() fx.Option {
	return fx.Module("tinvest",
		fx.Provide(
			service.NewClient, // *service.Client
		),
	)
}
