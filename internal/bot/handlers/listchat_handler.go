package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/hayasedb/chatarchive/internal/archive"
	"github.com/hayasedb/chatarchive/internal/format"
)

// NewListchatHandler returns a handler for the /listchat command. Without
// options it shows page 1; "-p N" selects a page and "-s N" looks up a single
// record by id. The two options are mutually exclusive.
func NewListchatHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return listchatHandler{deps}.Handle
}

type listchatHandler struct {
	deps HandlerDeps
}

func (h listchatHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "listchat")
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	group := groupID(msg.Chat)

	args := splitArgs(msg.Text)
	pageArg, args, hasPage := takeOption(args, "-p")
	singleArg, _, hasSingle := takeOption(args, "-s")

	if hasPage && hasSingle {
		reply(ctx, b, log, chatID, msgListConflict)
		return
	}

	if hasSingle {
		id, err := strconv.ParseUint(singleArg, 10, 64)
		if err != nil {
			reply(ctx, b, log, chatID, fmt.Sprintf("没有找到信息 #%s ", singleArg))
			return
		}
		h.handleSingle(ctx, b, update, id)
		return
	}

	page := 1
	if hasPage {
		parsed, err := strconv.Atoi(pageArg)
		if err != nil {
			reply(ctx, b, log, chatID, msgPageTooSmall)
			return
		}
		page = parsed
	}
	if page < 1 {
		reply(ctx, b, log, chatID, msgPageTooSmall)
		return
	}

	result, err := h.deps.Engine.ListPage(ctx, group, page)
	var pageErr *archive.InvalidPageError
	switch {
	case errors.Is(err, archive.ErrEmptyArchive):
		reply(ctx, b, log, chatID, msgListEmpty)
	case errors.As(err, &pageErr):
		reply(ctx, b, log, chatID, fmt.Sprintf("当前总共只有 %d 页聊天记录", pageErr.TotalPages))
	case err != nil:
		log.ErrorContext(ctx, "Failed to list archived messages",
			"chat_id", chatID, "page", page, "error", err)
		reply(ctx, b, log, chatID, msgGeneralError)
	default:
		reply(ctx, b, log, chatID,
			format.FormatMany(result.Records, result.Page, result.TotalPages, result.TotalCount))
	}
}

func (h listchatHandler) handleSingle(ctx context.Context, b *tgbot.Bot, update *models.Update, id uint64) {
	log := h.deps.Logger.With("handler", "listchat")
	msg := update.Message
	chatID := msg.Chat.ID

	record, err := h.deps.Engine.GetByID(ctx, groupID(msg.Chat), id)
	if errors.Is(err, archive.ErrEmptyArchive) {
		reply(ctx, b, log, chatID, msgListEmpty)
		return
	}
	if errors.Is(err, archive.ErrNotFound) {
		reply(ctx, b, log, chatID, fmt.Sprintf("没有找到信息 #%d ", id))
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to look up archived message",
			"chat_id", chatID, "id", id, "error", err)
		reply(ctx, b, log, chatID, msgGeneralError)
		return
	}

	reply(ctx, b, log, chatID, renderSingle(h.deps, record))
}
