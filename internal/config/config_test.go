package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hayasedb/chatarchive/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, "telegram:\n  token: \"123:abc\"\n")

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("token = %q, want %q", cfg.Telegram.Token, "123:abc")
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logger.Level)
	}
	if cfg.Database.Path != "storage.db" {
		t.Errorf("default database path = %q, want storage.db", cfg.Database.Path)
	}
	if cfg.Archive.PageSize != 7 {
		t.Errorf("default page size = %d, want 7", cfg.Archive.PageSize)
	}
	if cfg.Archive.ImageDir != "data/chat_archive_images" {
		t.Errorf("default image dir = %q", cfg.Archive.ImageDir)
	}
	if !cfg.Archive.UseGroupNickname {
		t.Error("use_group_nickname should default to true")
	}
	if cfg.Archive.UseForwardMsg {
		t.Error("use_forward_msg should default to false")
	}

	wantPerms := map[string]int{
		"savechat": cfg.Permissions.Savechat, "rollchat": cfg.Permissions.Rollchat,
		"listchat": cfg.Permissions.Listchat, "findchat": cfg.Permissions.Findchat,
	}
	for name, level := range wantPerms {
		if level != 1 {
			t.Errorf("default %s permission = %d, want 1", name, level)
		}
	}
	if cfg.Permissions.Delchat != 2 || cfg.Permissions.Resetchat != 2 {
		t.Errorf("default delchat/resetchat permissions = %d/%d, want 2/2",
			cfg.Permissions.Delchat, cfg.Permissions.Resetchat)
	}

	task, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok {
		t.Fatal("sql_maintenance task should be configured by default")
	}
	if !task.Enabled || task.Schedule != "0 0 4 * * *" {
		t.Errorf("sql_maintenance defaults = %+v", task)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfigFile(t, `
telegram:
  token: "123:abc"
  admin_ids: [1, 2]
  trusted_ids: [3]
logger:
  level: debug
  json: true
archive:
  page_size: 10
  use_forward_msg: true
permissions:
  delchat: 3
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Logger.Level != "debug" || !cfg.Logger.JSON {
		t.Errorf("logger overrides not applied: %+v", cfg.Logger)
	}
	if cfg.Archive.PageSize != 10 || !cfg.Archive.UseForwardMsg {
		t.Errorf("archive overrides not applied: %+v", cfg.Archive)
	}
	if cfg.Permissions.Delchat != 3 {
		t.Errorf("delchat permission = %d, want 3", cfg.Permissions.Delchat)
	}
	if cfg.Permissions.Resetchat != 2 {
		t.Errorf("resetchat should keep its default, got %d", cfg.Permissions.Resetchat)
	}
	if len(cfg.Telegram.AdminIDs) != 2 || len(cfg.Telegram.TrustedIDs) != 1 {
		t.Errorf("id lists not applied: %+v", cfg.Telegram)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "456:def")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig with missing file returned error: %v", err)
	}
	if cfg.Telegram.Token != "456:def" {
		t.Errorf("token from environment = %q, want %q", cfg.Telegram.Token, "456:def")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing token", "logger:\n  level: info\n"},
		{"bad log level", "telegram:\n  token: \"123:abc\"\nlogger:\n  level: loud\n"},
		{"zero page size", "telegram:\n  token: \"123:abc\"\narchive:\n  page_size: 0\n"},
		{"permission out of range", "telegram:\n  token: \"123:abc\"\npermissions:\n  delchat: 9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := config.LoadConfig(path); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestAuthorityLevel(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Telegram.AdminIDs = []int64{100}
	cfg.Telegram.TrustedIDs = []int64{200}

	tests := []struct {
		userID int64
		want   int
	}{
		{100, 3},
		{200, 2},
		{300, 1},
	}

	for _, tt := range tests {
		if got := cfg.AuthorityLevel(tt.userID); got != tt.want {
			t.Errorf("AuthorityLevel(%d) = %d, want %d", tt.userID, got, tt.want)
		}
	}
}
