package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30*time.Second, cfg.SchedulerInterval())
	assert.Zero(t, cfg.StaleAfter())
	assert.Equal(t, 30, cfg.Planner.DefaultDuration)
	assert.True(t, cfg.Notify.Terminal)
	assert.False(t, cfg.Notify.Telegram)
	assert.True(t, filepath.IsAbs(cfg.Database.Path) || cfg.Database.Path[0] == '~')
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/plan.db
timezone: UTC
scheduler:
  interval: 60
  stale_after: 3600
planner:
  default_duration: 45
log:
  level: debug
`), 0o644))

	t.Setenv("DAYPLAN_SCHEDULER__INTERVAL", "15")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/plan.db", cfg.Database.Path)
	assert.Equal(t, 15*time.Second, cfg.SchedulerInterval(), "env overrides file")
	assert.Equal(t, time.Hour, cfg.StaleAfter())
	assert.Equal(t, 45, cfg.Planner.DefaultDuration)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "tok", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_DBPathEnv(t *testing.T) {
	t.Setenv("DAYPLAN_DB_PATH", "/var/lib/dayplan.db")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/dayplan.db", cfg.Database.Path)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cases := map[string]func(c *Config){
		"interval":         func(c *Config) { c.Scheduler.Interval = 0 },
		"stale_after":      func(c *Config) { c.Scheduler.StaleAfter = -1 },
		"default_duration": func(c *Config) { c.Planner.DefaultDuration = 0 },
		"timezone":         func(c *Config) { c.Timezone = "Mars/Olympus" },
		"telegram":         func(c *Config) { c.Notify.Telegram = true },
		"log level":        func(c *Config) { c.Log.Level = "loud" },
		"metrics addr":     func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Addr = "nope" },
		"db path":          func(c *Config) { c.Database.Path = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
