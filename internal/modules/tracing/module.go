package tracing

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

// Module installs the Jaeger tracer when enabled. Otherwise spans go to the
// opentracing no-op tracer.
func Module() fx.Option {
	return fx.Module("tracing",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if !cfg.Tracing.Enabled {
				return nil
			}
			_, closeFn, err := tracing.InitTracer(tracing.Config{
				Service: cfg.Log.Service,
				Host:    cfg.Tracing.Host,
				Port:    cfg.Tracing.Port,
			})
			if err != nil {
				return err
			}
			logger.Info("[TRACE] jaeger agent %s:%d", cfg.Tracing.Host, cfg.Tracing.Port)
			lc.Append(fx.StopHook(closeFn))
			return nil
		}),
	)
}
