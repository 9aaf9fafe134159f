package handlers

// User-facing reply strings of the command surface.
const (
	msgNoPermission = "你没有权限执行此操作"
	msgNotGroup     = "你知道的，这是群聊指令，为什么要私聊使用呢？"
	msgGeneralError = "操作失败，请稍后再试"

	msgSaveNeedQuote = "使用 savechat 指令需要引用对方的消息"
	msgSaveNoContent = "无法获取消息内容...?"
	msgSaveNoSender  = "无法获取群u信息...?"

	msgRollEmpty = "当前群聊还没有存储任何的聊天记录"
	msgListEmpty = "当前群聊没有存储任何的聊天记录"

	msgPageTooSmall = "页码必须大于0 :("

	msgListConflict = "不能同时使用 -p 和 -s 参数"

	msgDelNeedID = "你需要提供一个整数参数作为需要删除的消息的 id"

	msgResetUsage    = "参数二选一：\n--this 清空当前群聊聊天信息\n或 --all 清空所有群聊聊天信息"
	msgResetConflict = "不能同时使用 --this 和 --all 参数"

	msgFindUsage = "请输入 findchat <空格> 要搜索的关键词，多个关键词用空格分隔，或使用 -t 按标签搜索"
)
