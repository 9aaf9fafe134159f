package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/hayasedb/chatarchive/internal/archive"
)

// NewDelchatHandler returns a handler for the /delchat command, which deletes
// a single archived message of the current group by id.
func NewDelchatHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return delchatHandler{deps}.Handle
}

type delchatHandler struct {
	deps HandlerDeps
}

func (h delchatHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "delchat")
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	args := splitArgs(msg.Text)
	if len(args) == 0 {
		reply(ctx, b, log, chatID, msgDelNeedID)
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		reply(ctx, b, log, chatID, msgDelNeedID)
		return
	}

	err = h.deps.Engine.DeleteOne(ctx, groupID(msg.Chat), id)
	if errors.Is(err, archive.ErrNotFound) {
		reply(ctx, b, log, chatID, fmt.Sprintf("未找到 #%d 消息记录", id))
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to delete archived message",
			"chat_id", chatID, "id", id, "error", err)
		reply(ctx, b, log, chatID, msgGeneralError)
		return
	}

	reply(ctx, b, log, chatID, fmt.Sprintf("已删除 #%d 消息记录", id))
}
