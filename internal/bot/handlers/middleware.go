// Package handlers contains the chat-archive Telegram command handlers,
// their option parsing, registration logic, and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RequireAuthority creates a middleware that checks the sender's authority
// level against a per-command threshold and rejects private-chat usage.
// Rejections are replied to the user; processing stops without reaching the
// wrapped handler.
func RequireAuthority(deps HandlerDeps, threshold int) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			log := deps.Logger.With("middleware", "require_authority")
			chatID := update.Message.Chat.ID
			userID := update.Message.From.ID

			if deps.Config.AuthorityLevel(userID) < threshold {
				log.WarnContext(ctx, "Command rejected, authority below threshold",
					"user_id", userID, "chat_id", chatID, "threshold", threshold)
				reply(ctx, b, log, chatID, msgNoPermission)
				return
			}

			if !isGroupChat(update.Message.Chat) {
				log.DebugContext(ctx, "Command rejected outside group chat",
					"user_id", userID, "chat_id", chatID)
				reply(ctx, b, log, chatID, msgNotGroup)
				return
			}

			next(ctx, b, update)
		}
	}
}

func isGroupChat(chat models.Chat) bool {
	return chat.Type == "group" || chat.Type == "supergroup"
}
