package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = `Chat-Archive 指令说明：

- /savechat：引用消息进行存档，-t <tag> 或直接跟 <tag> 可为消息设置标签
  （注意：tag 不能和被引用的文本完全一致）
- /rollchat：随机查看一条存档消息
- /listchat：查看存档消息，-p 指定页码，-s 指定编号查找
- /findchat <key1> [key2] ...：关键词查询，空格分隔，不区分大小写，可用 -t <tag> 按标签筛选
- /delchat <id>：删除单条存档消息
- /resetchat --this / --all：清空当前群聊 / 所有群聊的存档`

// NewHelpHandler returns a handler for the /chathelp command.
func NewHelpHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "help")
		if update.Message == nil {
			return
		}
		reply(ctx, b, log, update.Message.Chat.ID, helpText)
	}
}
