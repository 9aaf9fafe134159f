package handlers

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewResetchatHandler returns a handler for the /resetchat command, which
// clears the archive of the current group (--this) or of every group (--all).
// Exactly one of the two flags is required.
func NewResetchatHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return resetchatHandler{deps}.Handle
}

type resetchatHandler struct {
	deps HandlerDeps
}

func (h resetchatHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "resetchat")
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	args := splitArgs(msg.Text)
	args, this := takeFlag(args, "--this")
	_, all := takeFlag(args, "--all")

	switch {
	case !this && !all:
		reply(ctx, b, log, chatID, msgResetUsage)
		return
	case this && all:
		reply(ctx, b, log, chatID, msgResetConflict)
		return
	}

	if this {
		count, err := h.deps.Engine.ResetGroup(ctx, groupID(msg.Chat))
		if err != nil {
			log.ErrorContext(ctx, "Failed to reset group archive",
				"chat_id", chatID, "error", err)
			reply(ctx, b, log, chatID, msgGeneralError)
			return
		}
		reply(ctx, b, log, chatID, fmt.Sprintf("已清空当前群聊的 %d 条消息记录", count))
		return
	}

	count, err := h.deps.Engine.ResetAll(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to reset full archive",
			"chat_id", chatID, "error", err)
		reply(ctx, b, log, chatID, msgGeneralError)
		return
	}
	reply(ctx, b, log, chatID, fmt.Sprintf("已清空所有群聊的 %d 条消息记录", count))
}
