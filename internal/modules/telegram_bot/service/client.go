package service

import (
	"context"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
)

// SubscriberRegistry is what the chat commands change.
type SubscriberRegistry interface {
	Add(ctx context.Context, id int64) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
	Contains(id int64) bool
	Len() int
}

// Telegram delivers signal texts and listens for subscription commands.
type Telegram struct {
	bot  *tgbot.BotAPI
	subs SubscriberRegistry
}

func NewTelegram(cfg *config.Config, subs SubscriberRegistry) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram bot")
	}
	logger.Info("[TG] authorized as @%s", b.Self.UserName)

	return &Telegram{
		bot:  b,
		subs: subs,
	}, nil
}

// Send posts msg to chatID. The bot API client takes no context, so ctx is
// only checked before the request; a request already sent runs to completion.
func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	if err := ctx.Err(); err != nil {
		return tgbot.Message{}, errors.Wrapf(err, "send to %d", chatID)
	}
	return t.bot.Send(tgbot.NewMessage(chatID, msg))
}

// Deliver sends one plain-text message. No retries.
func (t *Telegram) Deliver(ctx context.Context, chatID int64, text string) error {
	_, err := t.Send(ctx, chatID, text)
	return err
}

// Start begins long polling in the background. Updates are handled one at a
// time until Stop.
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		logger.Info("[TG] listener started")
		for update := range updates {
			t.handleUpdate(ctx, update)
		}
		logger.Info("[TG] listener stopped")
	}()
}

// Stop ends polling. A long poll already in flight is abandoned, not awaited.
func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}
