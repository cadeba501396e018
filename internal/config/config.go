package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration, sourced from the environment.
type Config struct {
	Host             string        `envconfig:"HOST" default:"0.0.0.0"`
	Port             int           `envconfig:"PORT" default:"8000"`
	DBPath           string        `envconfig:"DB_PATH"`
	DownloadsDir     string        `envconfig:"DOWNLOADS_DIR" default:"downloads"`
	MaxFileSizeMB    int64         `envconfig:"MAX_FILE_SIZE_MB" default:"500"`
	CleanupAfterDays int           `envconfig:"CLEANUP_AFTER_DAYS" default:"7"`
	SweepInterval    time.Duration `envconfig:"SWEEP_INTERVAL" default:"12h"`
	FetchTimeout     time.Duration `envconfig:"FETCH_TIMEOUT" default:"30m"`
	Workers          int           `envconfig:"WORKERS" default:"4"`
	QueueSize        int           `envconfig:"QUEUE_SIZE" default:"64"`

	// Optional Instagram credentials for authenticated fetches.
	InstagramUsername string `envconfig:"INSTAGRAM_USERNAME"`
	InstagramPassword string `envconfig:"INSTAGRAM_PASSWORD"`

	// Optional TOML file overriding fetcher commands.
	FetchersFile string `envconfig:"FETCHERS_FILE"`
}

// DefaultDBPath returns the default database path using XDG_CACHE_HOME.
func DefaultDBPath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, _ := os.UserHomeDir()
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, "mediagrabber", "records.db")
}

// Load reads .env if present, then builds Config from the environment.
func Load() (*Config, error) {
	// A missing .env is fine; variables may be set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MaxFileSizeBytes converts the configured megabyte limit to bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// RetentionAge converts the cleanup window to a duration.
func (c *Config) RetentionAge() time.Duration {
	return time.Duration(c.CleanupAfterDays) * 24 * time.Hour
}

// FetcherCommand overrides the command a platform fetcher runs. Args may
// reference the {url}, {format} and {dir} placeholders.
type FetcherCommand struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// FetcherCommands holds per-platform command overrides.
type FetcherCommands struct {
	YouTube   FetcherCommand `toml:"youtube"`
	Instagram FetcherCommand `toml:"instagram"`
}

// LoadFetcherCommands parses the optional fetcher command file. An empty
// path yields zero-value overrides, leaving fetcher defaults in place.
func LoadFetcherCommands(path string) (*FetcherCommands, error) {
	cmds := &FetcherCommands{}
	if path == "" {
		return cmds, nil
	}
	if _, err := toml.DecodeFile(path, cmds); err != nil {
		return nil, fmt.Errorf("parse fetcher commands %s: %w", path, err)
	}
	return cmds, nil
}
