package config

import (
	"go.uber.org/fx"

	"signal_bot/pkg/logger"
)

// newConfig loads the config and initialises logging from it, so every
// other constructor already logs through the configured logger.
func newConfig() (*Config, error) {
	cfg, err := NewConfig()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			newConfig,
		),
		fx.Invoke(func(cfg *Config) {
			logger.Info("[CONFIG] effective config:\n%s", cfg.Redacted())
		}),
	)
}
