package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/hayasedb/chatarchive/internal/archive"
	"github.com/hayasedb/chatarchive/internal/format"
)

// NewFindchatHandler returns a handler for the /findchat command: keyword
// search (every keyword must appear in the content, case-insensitively),
// optionally restricted to a tag with "-t" and paged with "-p".
func NewFindchatHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return findchatHandler{deps}.Handle
}

type findchatHandler struct {
	deps HandlerDeps
}

func (h findchatHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "findchat")
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	args := splitArgs(msg.Text)
	tag, args, _ := takeOption(args, "-t")
	pageArg, keywords, hasPage := takeOption(args, "-p")

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

	result, err := h.deps.Engine.Search(ctx, groupID(msg.Chat), keywords, tag, page)
	var pageErr *archive.InvalidPageError
	switch {
	case errors.Is(err, archive.ErrEmptyQuery):
		reply(ctx, b, log, chatID, msgFindUsage)
	case errors.As(err, &pageErr):
		reply(ctx, b, log, chatID, fmt.Sprintf("当前总共只有 %d 页聊天记录", pageErr.TotalPages))
	case err != nil:
		log.ErrorContext(ctx, "Failed to search archive",
			"chat_id", chatID, "tag", tag, "error", err)
		reply(ctx, b, log, chatID, msgGeneralError)
	case result.TotalCount == 0:
		reply(ctx, b, log, chatID, noMatchMessage(keywords, tag))
	default:
		reply(ctx, b, log, chatID,
			format.FormatMany(result.Records, result.Page, result.TotalPages, result.TotalCount))
	}
}

// noMatchMessage describes an empty search result in terms of the query.
func noMatchMessage(keywords []string, tag string) string {
	if tag != "" {
		if len(keywords) > 0 {
			return fmt.Sprintf("没有找到标签为 %q 且包含指定关键词的聊天记录", tag)
		}
		return fmt.Sprintf("没有找到标签为 %q 的聊天记录", tag)
	}

	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		quoted = append(quoted, strconv.Quote(kw))
	}
	return fmt.Sprintf("没有找到同时包含 %s 的聊天记录", strings.Join(quoted, " 和 "))
}
