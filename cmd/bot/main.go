package main

import (
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/notifier"
	"signal_bot/internal/modules/postgres"
	"signal_bot/internal/modules/scanner"
	"signal_bot/internal/modules/strategy"
	telegram "signal_bot/internal/modules/telegram_bot"
	"signal_bot/internal/modules/tinvest"
	"signal_bot/internal/modules/tracing"
	"signal_bot/pkg/logger"
)

func modules() []fx.Option {
	return []fx.Option{
		config.Module(),
		tracing.Module(),
		postgres.Module(),
		tinvest.Module(),
		strategy.Module(),
		notifier.Module(),
		telegram.Module(),
		health.Module(),
		scanner.Module(),
	}
}

func main() {
	pflag.Parse()
	defer logger.Sync()

	app := fx.New(append(modules(),
		fx.WithLogger(func(_ *config.Config) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.L()}
		}),
	)...)
	app.Run()
}
