package notifier

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/notifier/service"
	"signal_bot/internal/modules/notifier/service/file"
	"signal_bot/internal/modules/notifier/service/pg"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"
)

// newStore picks postgres when a DSN is set, then the snapshot file, and
// otherwise keeps subscribers in memory only.
func newStore(lc fx.Lifecycle, cfg *config.Config, pool *db.PgTxManager) service.Store {
	switch {
	case pool != nil:
		s := pg.NewSubscribers(pool)
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := s.Migrate(ctx); err != nil {
					logger.Error("[NOTIFY] migrate subscribers table: %v", err)
				}
				return nil
			},
		})
		logger.Info("[NOTIFY] subscribers stored in postgres")
		return s
	case cfg.SubscribersFile != "":
		logger.Info("[NOTIFY] subscribers stored in %s", cfg.SubscribersFile)
		return file.NewSubscribers(cfg.SubscribersFile)
	default:
		logger.Warn("[NOTIFY] no subscriber store configured, subscriptions are lost on restart")
		return nil
	}
}

func Module() fx.Option {
	return fx.Module("notifier",
		fx.Provide(
			newStore,               // service.Store
			service.NewSubscribers, // *service.Subscribers
			service.NewSink,        // *service.Sink (Transport comes from telegram)
		),

		fx.Invoke(func(lc fx.Lifecycle, subs *service.Subscribers) {
			lc.Append(fx.Hook{
				// A broken store must not keep the bot down; it starts with
				// whatever was restored.
				OnStart: func(ctx context.Context) error {
					if err := subs.Restore(ctx); err != nil {
						logger.Error("[NOTIFY] %v, starting with %d subscribers", err, subs.Len())
					}
					return nil
				},
			})
		}),
	)
}
