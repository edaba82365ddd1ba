package telegram

import (
	"context"

	"go.uber.org/fx"

	notifier "signal_bot/internal/modules/notifier/service"
	"signal_bot/internal/modules/telegram_bot/service"
)

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			func(s *notifier.Subscribers) service.SubscriberRegistry { return s },
			service.NewTelegram, // *service.Telegram
			// delivery side of the notifier
			func(t *service.Telegram) notifier.Transport { return t },
		),

		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						// the start context ends with OnStart; the listener outlives it
						t.Start(context.WithoutCancel(ctx))
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
