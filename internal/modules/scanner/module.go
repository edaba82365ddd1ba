package scanner

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	notifier "signal_bot/internal/modules/notifier/service"
	"signal_bot/internal/modules/scanner/service"
	strategy "signal_bot/internal/modules/strategy/service"
	tinvest "signal_bot/internal/modules/tinvest/service"
	"signal_bot/pkg/logger"
)

func newIndicatorSource(cfg *config.Config, remote *tinvest.Client, local *strategy.LocalEMA) service.IndicatorSource {
	if cfg.Strategy.IndicatorSource == config.IndicatorLocal {
		logger.Info("[SCAN] EMA computed locally from candles")
		return local
	}
	return remote
}

type scannerParams struct {
	fx.In

	Cfg        *config.Config
	Client     *tinvest.Client
	Indicators service.IndicatorSource
	Sink       *notifier.Sink
	Registry   *strategy.Registry
	State      *health.State
}

func newScanner(p scannerParams) *service.Scanner {
	return service.NewScanner(p.Cfg, service.Deps{
		Universe:    p.Client,
		Tradability: p.Client,
		Indicators:  p.Indicators,
		Prices:      p.Client,
		Sink:        p.Sink,
		Registry:    p.Registry,
		Recorder:    p.State,
	})
}

func Module() fx.Option {
	return fx.Module("scanner",
		fx.Provide(
			newIndicatorSource, // service.IndicatorSource
			newScanner,         // *service.Scanner
		),

		fx.Invoke(func(lc fx.Lifecycle, s *service.Scanner) {
			var (
				cancel context.CancelFunc
				done   = make(chan struct{})
			)
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					var ctx context.Context
					ctx, cancel = context.WithCancel(context.Background())
					go func() {
						defer close(done)
						_ = s.Run(ctx)
					}()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					cancel()
					select {
					case <-done:
					case <-ctx.Done():
						logger.Warn("[SCAN] stop timed out waiting for an in-flight call")
					}
					return nil
				},
			})
		}),
	)
}
