// Package tasks implements the bot's scheduled tasks: task definitions,
// dependencies, and registration.
package tasks

import (
	"log/slog"

	"github.com/hayasedb/chatarchive/internal/config"
	"github.com/hayasedb/chatarchive/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
