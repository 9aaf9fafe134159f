package handlers

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/hayasedb/chatarchive/internal/archive"
	"github.com/hayasedb/chatarchive/internal/segment"
)

// NewSavechatHandler returns a handler for the /savechat command. The command
// archives the replied-to message; an optional tag is taken from "-t tag" or
// the first positional argument.
func NewSavechatHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return savechatHandler{deps}.Handle
}

type savechatHandler struct {
	deps HandlerDeps
}

func (h savechatHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "savechat")
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	quote := msg.ReplyToMessage
	if quote == nil {
		reply(ctx, b, log, chatID, msgSaveNeedQuote)
		return
	}

	content := quotedContent(ctx, b, quote)
	if content == "" {
		reply(ctx, b, log, chatID, msgSaveNoContent)
		return
	}
	if quote.From == nil {
		reply(ctx, b, log, chatID, msgSaveNoSender)
		return
	}

	args := splitArgs(msg.Text)
	tag, rest, ok := takeOption(args, "-t")
	if !ok && len(rest) > 0 {
		tag = rest[0]
	}

	in := archive.SaveInput{
		GroupID:    groupID(msg.Chat),
		SenderID:   strconv.FormatInt(quote.From.ID, 10),
		SenderName: userDisplayName(quote.From),
		Content:    content,
		Timestamp:  time.Unix(int64(quote.Date), 0),
		Tag:        tag,
	}

	var resolver archive.NameResolver
	if h.deps.Config.Archive.UseGroupNickname {
		resolver = h.memberNameResolver(b)
	}

	record, err := h.deps.Engine.Save(ctx, in, resolver)
	if err != nil {
		log.ErrorContext(ctx, "Failed to save archived message",
			"chat_id", chatID, "error", err)
		reply(ctx, b, log, chatID, msgGeneralError)
		return
	}

	confirmation := fmt.Sprintf("#%d 消息已储存", record.ID)
	if record.Tag != "" {
		confirmation += "，Tag: " + record.Tag
	}
	reply(ctx, b, log, chatID, confirmation)
}

// memberNameResolver resolves a sender's group-specific display name via the
// chat member API: an admin's custom title when set, else the member's
// current name. Lookup failures resolve to empty, letting the engine fall
// back to the name captured from the quote.
func (h savechatHandler) memberNameResolver(b *tgbot.Bot) archive.NameResolver {
	return func(ctx context.Context, group, sender string) string {
		chatID, err := strconv.ParseInt(group, 10, 64)
		if err != nil {
			return ""
		}
		userID, err := strconv.ParseInt(sender, 10, 64)
		if err != nil {
			return ""
		}

		member, err := b.GetChatMember(ctx, &tgbot.GetChatMemberParams{
			ChatID: chatID,
			UserID: userID,
		})
		if err != nil || member == nil {
			return ""
		}

		switch {
		case member.Owner != nil:
			if member.Owner.CustomTitle != "" {
				return member.Owner.CustomTitle
			}
			return userDisplayName(member.Owner.User)
		case member.Administrator != nil:
			if member.Administrator.CustomTitle != "" {
				return member.Administrator.CustomTitle
			}
			return userDisplayName(&member.Administrator.User)
		case member.Member != nil:
			return userDisplayName(member.Member.User)
		case member.Restricted != nil:
			return userDisplayName(member.Restricted.User)
		}
		return ""
	}
}

// quotedContent extracts the archivable body of a quoted message: its text or
// caption, with any attached image converted into embedded image markup so
// the localizer can store it.
func quotedContent(ctx context.Context, b *tgbot.Bot, quote *models.Message) string {
	content := quote.Text
	if content == "" {
		content = quote.Caption
	}

	if ref := imageMarkup(ctx, b, quote); ref != "" {
		if content != "" {
			content += "\n"
		}
		content += ref
	}

	return content
}

// imageMarkup converts a replied photo or image document into embedded image
// markup pointing at its Telegram file download URL.
func imageMarkup(ctx context.Context, b *tgbot.Bot, quote *models.Message) string {
	var fileID, name string

	switch {
	case len(quote.Photo) > 0:
		// Photo sizes are ordered smallest first; archive the largest.
		fileID = quote.Photo[len(quote.Photo)-1].FileID
	case quote.Document != nil && strings.HasPrefix(quote.Document.MimeType, "image/"):
		fileID = quote.Document.FileID
		name = quote.Document.FileName
	default:
		return ""
	}

	file, err := b.GetFile(ctx, &tgbot.GetFileParams{FileID: fileID})
	if err != nil || file == nil {
		return ""
	}
	if name == "" {
		name = path.Base(file.FilePath)
	}

	return segment.Image(b.FileDownloadLink(file), name)
}

func userDisplayName(u *models.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}
