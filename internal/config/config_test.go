package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"atelier/internal/config"
)

func TestLoadDefaultsWhenNoFileExists(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ATELIER_NTFY_TOPIC", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "atelier")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Notifications.RequestTimeout != 10 {
		t.Fatalf("unexpected notification timeout: %d", cfg.Notifications.RequestTimeout)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "atelier.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
}

func TestLoadParsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atelier.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[notifications]
ntfy_topic = "https://ntfy.sh/atelier-test"
assignments = false

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config file to be found, exists=%v resolved=%q", exists, resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(dir, "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/atelier-test" {
		t.Fatalf("unexpected topic: %q", cfg.Notifications.NtfyTopic)
	}
	if cfg.Notifications.Assignments {
		t.Fatal("expected assignment notifications disabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidLogging(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atelier.toml")
	content := `
[logging]
level = "verbose"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected invalid log level to be rejected")
	}
}

func TestNtfyTopicFallsBackToEnvironment(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ATELIER_NTFY_TOPIC", "https://ntfy.sh/from-env")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/from-env" {
		t.Fatalf("expected env topic, got %q", cfg.Notifications.NtfyTopic)
	}
}
