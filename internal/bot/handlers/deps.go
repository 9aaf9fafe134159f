package handlers

import (
	"log/slog"

	"github.com/hayasedb/chatarchive/internal/archive"
	"github.com/hayasedb/chatarchive/internal/config"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Engine *archive.Engine
}
