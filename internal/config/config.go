package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "DAYPLAN_"

type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Timezone  string          `koanf:"timezone"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Planner   PlannerConfig   `koanf:"planner"`
	Notify    NotifyConfig    `koanf:"notify"`
	Telegram  TelegramConfig  `koanf:"telegram"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	UI        UIConfig        `koanf:"ui"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type SchedulerConfig struct {
	Enabled    bool `koanf:"enabled"`
	Interval   int  `koanf:"interval"`    // seconds between due-checks
	StaleAfter int  `koanf:"stale_after"` // seconds; 0 disables stale skipping
}

type PlannerConfig struct {
	DefaultDuration int `koanf:"default_duration"` // minutes
}

type NotifyConfig struct {
	Terminal bool `koanf:"terminal"`
	Telegram bool `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
}

type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type UIConfig struct {
	ColoredOutput bool `koanf:"colored_output"`
	Markdown      bool `koanf:"markdown"`
}

// Load layers defaults, the YAML file at configPath (if it exists) and
// DAYPLAN_ environment variables, in that order. Nested keys use a double
// underscore: DAYPLAN_SCHEDULER__INTERVAL=60.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Well-known variables shared with the standalone MCP servers
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		k.Set("telegram.bot_token", v)
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		k.Set("telegram.chat_id", v)
	}
	if v := os.Getenv("DAYPLAN_DB_PATH"); v != "" {
		k.Set("database.path", v)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.Path = expandPath(cfg.Database.Path)

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive, got %d", c.Scheduler.Interval)
	}

	if c.Scheduler.StaleAfter < 0 {
		return fmt.Errorf("scheduler.stale_after must not be negative")
	}

	if c.Planner.DefaultDuration <= 0 {
		return fmt.Errorf("planner.default_duration must be positive")
	}

	if c.Notify.Telegram && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram notifications need a bot token and chat id (set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID)")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s (supported: debug, info, warn, error)", c.Log.Level)
	}

	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			return fmt.Errorf("metrics.addr %q is not host:port: %w", c.Metrics.Addr, err)
		}
	}

	return nil
}

// Location resolves the configured timezone used to interpret dates.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SchedulerInterval returns the polling period.
func (c *Config) SchedulerInterval() time.Duration {
	return time.Duration(c.Scheduler.Interval) * time.Second
}

// StaleAfter returns the catch-up cutoff, zero when disabled.
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.Scheduler.StaleAfter) * time.Second
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
