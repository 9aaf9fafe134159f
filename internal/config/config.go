// Package config provides configuration loading, validation, and management
// for the chat-archive bot. It handles reading from YAML files, BOT_-prefixed
// environment variables, default values, and validating the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components of the
// chat-archive bot: logging, Telegram access, database, archive behavior,
// per-command permission thresholds, and scheduled tasks.
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Archive     ArchiveConfig     `mapstructure:"archive"`
	Permissions PermissionsConfig `mapstructure:"permissions"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
}

// LoggerConfig controls log level, format, and optional rotating file output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`

	// File enables rotated file logging when non-empty; stdout otherwise.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups"  validate:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

// TelegramConfig holds the bot token and the user-id lists that determine
// authority levels.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// AdminIDs are granted authority level 3, TrustedIDs level 2.
	// Everyone else has level 1.
	AdminIDs   []int64 `mapstructure:"admin_ids"`
	TrustedIDs []int64 `mapstructure:"trusted_ids"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ArchiveConfig controls archive behavior and presentation.
type ArchiveConfig struct {
	PageSize         int    `mapstructure:"page_size" validate:"min=1"`
	UseGroupNickname bool   `mapstructure:"use_group_nickname"`
	UseForwardMsg    bool   `mapstructure:"use_forward_msg"`
	ImageDir         string `mapstructure:"image_dir"`
}

// PermissionsConfig holds the minimum authority level per command.
type PermissionsConfig struct {
	Savechat  int `mapstructure:"savechat"  validate:"min=1,max=3"`
	Rollchat  int `mapstructure:"rollchat"  validate:"min=1,max=3"`
	Listchat  int `mapstructure:"listchat"  validate:"min=1,max=3"`
	Findchat  int `mapstructure:"findchat"  validate:"min=1,max=3"`
	Delchat   int `mapstructure:"delchat"   validate:"min=1,max=3"`
	Resetchat int `mapstructure:"resetchat" validate:"min=1,max=3"`
}

// SchedulerConfig holds the scheduled task definitions keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// AuthorityLevel returns the authority level of a user: 3 for configured
// admins, 2 for trusted users, 1 for everyone else.
func (c *Config) AuthorityLevel(userID int64) int {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return 3
		}
	}
	for _, id := range c.Telegram.TrustedIDs {
		if id == userID {
			return 2
		}
	}
	return 1
}

// LoadConfig reads configuration from the given YAML file, applies BOT_*
// environment variable overrides and defaults, and validates the result.
// A missing config file is not an error; defaults and environment cover it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)
	v.SetDefault("logger.compress", true)

	// Registering the key lets BOT_TELEGRAM_TOKEN reach Unmarshal even
	// without a config file; validation still rejects an empty token.
	v.SetDefault("telegram.token", "")

	v.SetDefault("database.path", "storage.db")

	v.SetDefault("archive.page_size", 7)
	v.SetDefault("archive.use_group_nickname", true)
	v.SetDefault("archive.use_forward_msg", false)
	v.SetDefault("archive.image_dir", "data/chat_archive_images")

	v.SetDefault("permissions.savechat", 1)
	v.SetDefault("permissions.rollchat", 1)
	v.SetDefault("permissions.listchat", 1)
	v.SetDefault("permissions.findchat", 1)
	v.SetDefault("permissions.delchat", 2)
	v.SetDefault("permissions.resetchat", 2)

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 0 4 * * *")
}
