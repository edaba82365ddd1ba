package service

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/pkg/logger"
)

const (
	replySubscribed    = "✅ You have subscribed to trading signals!"
	replyAlready       = "You are already subscribed to trading signals."
	replyUnsubscribed  = "🔕 You have unsubscribed. Send /start to subscribe again."
	replyNotSubscribed = "You are not subscribed. Send /start to subscribe."
	replyHelp          = "/start - subscribe to Buy/Sell signals\n" +
		"/stop - unsubscribe\n" +
		"/status - subscription status"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	chatID := msg.Chat.ID
	reply := handleCommand(ctx, t.subs, chatID, msg.Command())
	if reply == "" {
		return
	}
	if _, err := t.Send(ctx, chatID, reply); err != nil {
		logger.Error("[TG] reply to %d: %v", chatID, err)
	}
}

// handleCommand applies one chat command and returns the reply text, empty
// for commands the bot does not know.
func handleCommand(ctx context.Context, subs SubscriberRegistry, chatID int64, command string) string {
	switch command {
	case "start":
		added, err := subs.Add(ctx, chatID)
		if err != nil {
			logger.Error("[TG] subscribe %d: %v", chatID, err)
		}
		if !added {
			return replyAlready
		}
		logger.Info("[TG] new subscriber: %d", chatID)
		return replySubscribed

	case "stop":
		removed, err := subs.Remove(ctx, chatID)
		if err != nil {
			logger.Error("[TG] unsubscribe %d: %v", chatID, err)
		}
		if !removed {
			return replyNotSubscribed
		}
		logger.Info("[TG] unsubscribed: %d", chatID)
		return replyUnsubscribed

	case "status":
		state := "not subscribed"
		if subs.Contains(chatID) {
			state = "subscribed"
		}
		return fmt.Sprintf("You are %s. Subscribers: %d", state, subs.Len())

	case "help":
		return replyHelp

	default:
		return ""
	}
}
