package postgres

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"
)

// Module provides *db.PgTxManager, or nil when no DSN is configured.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(newManager),
	)
}

func newManager(lc fx.Lifecycle, cfg *config.Config) (*db.PgTxManager, error) {
	if cfg.DB == "" {
		logger.Info("[DB] db_dsn not set, postgres disabled")
		return nil, nil
	}

	m, err := db.Open(context.Background(), cfg.DB)
	if err != nil {
		return nil, &config.ConfigError{Err: err}
	}
	lc.Append(fx.StopHook(m.Close))
	return m, nil
}
