package handlers

import (
	"context"
	"errors"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/hayasedb/chatarchive/internal/archive"
)

// NewRollchatHandler returns a handler for the /rollchat command, which
// replies with one random archived message from the current group.
func NewRollchatHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return rollchatHandler{deps}.Handle
}

type rollchatHandler struct {
	deps HandlerDeps
}

func (h rollchatHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "rollchat")
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	record, err := h.deps.Engine.PickRandom(ctx, groupID(msg.Chat))
	if errors.Is(err, archive.ErrEmptyArchive) {
		reply(ctx, b, log, chatID, msgRollEmpty)
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to pick random archived message",
			"chat_id", chatID, "error", err)
		reply(ctx, b, log, chatID, msgGeneralError)
		return
	}

	reply(ctx, b, log, chatID, renderSingle(h.deps, record))
}
