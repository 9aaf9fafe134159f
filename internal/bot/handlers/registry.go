package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its middleware and the
// description published in the bot command list.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Description string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all available bot
// commands, each gated by its configured authority threshold.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	perms := deps.Config.Permissions

	command := func(pattern, description string, threshold int, handler tgbot.HandlerFunc) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Description: description,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  []tgbot.Middleware{RequireAuthority(deps, threshold)},
		}
	}

	handlers := make(map[string]RegisteredHandler)
	handlers["/savechat"] = command("savechat", "引用消息进行存档", perms.Savechat, NewSavechatHandler(deps))
	handlers["/rollchat"] = command("rollchat", "随机查看一条存档消息", perms.Rollchat, NewRollchatHandler(deps))
	handlers["/listchat"] = command("listchat", "查看存档消息", perms.Listchat, NewListchatHandler(deps))
	handlers["/findchat"] = command("findchat", "关键词查询存档", perms.Findchat, NewFindchatHandler(deps))
	handlers["/delchat"] = command("delchat", "删除单条存档消息", perms.Delchat, NewDelchatHandler(deps))
	handlers["/resetchat"] = command("resetchat", "清空存档", perms.Resetchat, NewResetchatHandler(deps))

	handlers["/chathelp"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "chathelp",
		Description: "查看使用说明",
		Handler:     NewHelpHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	return handlers
}
