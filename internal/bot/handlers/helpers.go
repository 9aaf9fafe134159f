package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/hayasedb/chatarchive/internal/database"
	"github.com/hayasedb/chatarchive/internal/format"
)

// renderSingle renders one record either as plain text or as the flattened
// forward envelope, depending on configuration.
func renderSingle(deps HandlerDeps, record *database.ArchivedMessage) string {
	if deps.Config.Archive.UseForwardMsg {
		return format.BuildForward(record).String()
	}
	return format.FormatOne(record)
}

// reply sends a plain-text reply and logs send failures.
func reply(ctx context.Context, b *tgbot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// groupID maps a Telegram chat id onto the archive's group identifier.
func groupID(chat models.Chat) string {
	return strconv.FormatInt(chat.ID, 10)
}

// splitArgs tokenizes a command message, dropping the leading /command token.
func splitArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// takeOption extracts a "-x value" style option from args, returning the
// value, the remaining args, and whether the option was present. An option
// at the end of the args with no value counts as absent.
func takeOption(args []string, name string) (string, []string, bool) {
	for i, a := range args {
		if a != name {
			continue
		}
		if i+1 >= len(args) {
			rest := append([]string{}, args[:i]...)
			return "", rest, false
		}
		value := args[i+1]
		rest := append([]string{}, args[:i]...)
		rest = append(rest, args[i+2:]...)
		return value, rest, true
	}
	return "", args, false
}

// takeFlag extracts a bare "--x" style flag from args.
func takeFlag(args []string, name string) ([]string, bool) {
	for i, a := range args {
		if a != name {
			continue
		}
		rest := append([]string{}, args[:i]...)
		rest = append(rest, args[i+1:]...)
		return rest, true
	}
	return args, false
}
