// Package bot subscribes to inbound Telegram messages, matches them against
// recognized command patterns, and relays them to the backend expense
// service through the command handlers.
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Command patterns. Structural, anchored matching: /list can never match as
// a substring of another command, and /add captures its optional trailing
// text as one argument.
const (
	patternStart = `^/start\b`
	patternList  = `^/list\b`
	patternAdd   = `^/add(?:\s+(.*))?$`
)

type Bot struct {
	api    *tgbotapi.BotAPI
	router *Router
	logger *slog.Logger
}

// New wires the bot: handlers bound to their command patterns, all
// dependencies passed in explicitly so tests can substitute fakes.
func New(api *tgbotapi.BotAPI, backend BackendClient, jour Recorder, events EventPublisher, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}

	handlers := NewHandlers(api, backend, jour, events, logger)

	router := NewRouter(logger)
	router.Handle("start", patternStart, handlers.Start)
	router.Handle("list", patternList, handlers.List)
	router.Handle("add", patternAdd, handlers.Add)

	return &Bot{
		api:    api,
		router: router,
		logger: logger.With("component", "bot"),
	}
}

// Run consumes the update stream until ctx is cancelled. Dispatch never
// blocks on a handler, so one slow backend call cannot stall other chats.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.InfoContext(ctx, "Listening for telegram updates", "bot", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.router.Wait()
			b.logger.InfoContext(ctx, "Stopped listening for telegram updates", "reason", ctx.Err())
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.router.Wait()
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.router.Dispatch(ctx, update.Message)
		}
	}
}
