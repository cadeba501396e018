package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configKeys = []string{
	"HOST", "PORT", "DB_PATH", "DOWNLOADS_DIR", "MAX_FILE_SIZE_MB",
	"CLEANUP_AFTER_DAYS", "SWEEP_INTERVAL", "FETCH_TIMEOUT", "WORKERS",
	"QUEUE_SIZE", "INSTAGRAM_USERNAME", "INSTAGRAM_PASSWORD", "FETCHERS_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			t.Setenv(key, value) // register restore
			os.Unsetenv(key)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want %q", cfg.Host, "0.0.0.0")
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.DownloadsDir != "downloads" {
		t.Errorf("DownloadsDir = %q, want %q", cfg.DownloadsDir, "downloads")
	}
	if cfg.MaxFileSizeMB != 500 {
		t.Errorf("MaxFileSizeMB = %d, want 500", cfg.MaxFileSizeMB)
	}
	if cfg.CleanupAfterDays != 7 {
		t.Errorf("CleanupAfterDays = %d, want 7", cfg.CleanupAfterDays)
	}
	if cfg.SweepInterval != 12*time.Hour {
		t.Errorf("SweepInterval = %s, want 12h", cfg.SweepInterval)
	}
	if cfg.FetchTimeout != 30*time.Minute {
		t.Errorf("FetchTimeout = %s, want 30m", cfg.FetchTimeout)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.QueueSize != 64 {
		t.Errorf("QueueSize = %d, want 64", cfg.QueueSize)
	}
	if cfg.DBPath == "" {
		t.Error("DBPath empty, want default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("DOWNLOADS_DIR", "/srv/media")
	t.Setenv("MAX_FILE_SIZE_MB", "100")
	t.Setenv("SWEEP_INTERVAL", "1h")
	t.Setenv("WORKERS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want %q", cfg.Host, "127.0.0.1")
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/test.db")
	}
	if cfg.DownloadsDir != "/srv/media" {
		t.Errorf("DownloadsDir = %q, want %q", cfg.DownloadsDir, "/srv/media")
	}
	if cfg.SweepInterval != time.Hour {
		t.Errorf("SweepInterval = %s, want 1h", cfg.SweepInterval)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Addr() != "127.0.0.1:9999" {
		t.Errorf("Addr() = %q, want %q", cfg.Addr(), "127.0.0.1:9999")
	}
}

func TestConfig_Conversions(t *testing.T) {
	cfg := &Config{MaxFileSizeMB: 2, CleanupAfterDays: 3}

	if got := cfg.MaxFileSizeBytes(); got != 2*1024*1024 {
		t.Errorf("MaxFileSizeBytes() = %d, want %d", got, 2*1024*1024)
	}
	if got := cfg.RetentionAge(); got != 72*time.Hour {
		t.Errorf("RetentionAge() = %s, want 72h", got)
	}
}

func TestLoadFetcherCommands(t *testing.T) {
	// Empty path yields zero-value overrides.
	cmds, err := LoadFetcherCommands("")
	if err != nil {
		t.Fatalf("LoadFetcherCommands(\"\") error = %v", err)
	}
	if cmds.YouTube.Command != "" || cmds.Instagram.Command != "" {
		t.Errorf("expected zero-value overrides, got %+v", cmds)
	}

	path := filepath.Join(t.TempDir(), "fetchers.toml")
	data := `
[youtube]
command = "/usr/local/bin/yt-dlp"
args = ["-f", "{format}", "-o", "{dir}/%(title)s.%(ext)s", "{url}"]

[instagram]
command = "instaloader"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cmds, err = LoadFetcherCommands(path)
	if err != nil {
		t.Fatalf("LoadFetcherCommands() error = %v", err)
	}
	if cmds.YouTube.Command != "/usr/local/bin/yt-dlp" {
		t.Errorf("YouTube.Command = %q", cmds.YouTube.Command)
	}
	if len(cmds.YouTube.Args) != 5 {
		t.Errorf("YouTube.Args = %v, want 5 args", cmds.YouTube.Args)
	}
	if cmds.Instagram.Command != "instaloader" {
		t.Errorf("Instagram.Command = %q", cmds.Instagram.Command)
	}

	if _, err := LoadFetcherCommands(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadFetcherCommands() on missing file, want error")
	}
}
