package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/scroll"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.Equal(t, 12, cfg.RetentionMonths)
	assert.Equal(t, float64(scroll.DefaultHysteresisPx), cfg.Scroll.HysteresisPx)
	assert.Equal(t, scroll.DefaultDebounce, cfg.Scroll.Debounce)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yml")
	yml := `port: "9000"
database_path: /tmp/site.db
smtp:
  host: mail.example.com
  to: me@example.com
scroll:
  hysteresis_px: 30
  debounce: 200ms
  sections: [intro, work, contact]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("PORT", "9100")
	t.Setenv("SMTP_USER", "bot@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("SCROLL_SESSION_TTL", "5m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "/tmp/site.db", cfg.DatabasePath)
	assert.Equal(t, "mail.example.com", cfg.SMTP.Host)
	assert.Equal(t, "587", cfg.SMTP.Port, "default kept when not overridden")
	assert.Equal(t, "me@example.com", cfg.SMTP.To)
	assert.True(t, cfg.MailConfigured())
	assert.Equal(t, 30.0, cfg.Scroll.HysteresisPx)
	assert.Equal(t, 200*time.Millisecond, cfg.Scroll.Debounce)
	assert.Equal(t, 5*time.Minute, cfg.Scroll.SessionTTL)
	assert.Equal(t, []string{"intro", "work", "contact"}, cfg.Scroll.Sections)
}

func TestLoad_SectionsFromEnv(t *testing.T) {
	t.Setenv("SCROLL_SECTIONS", "hero, resume ,contact,")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"hero", "resume", "contact"}, cfg.Scroll.Sections)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().DatabasePath, cfg.DatabasePath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty port", func(c *Config) { c.Port = "" }, false},
		{"bad mode", func(c *Config) { c.Mode = "prod" }, false},
		{"negative hysteresis", func(c *Config) { c.Scroll.HysteresisPx = -1 }, false},
		{"zero ttl", func(c *Config) { c.Scroll.SessionTTL = 0 }, false},
		{"sub-second ttl", func(c *Config) { c.Scroll.SessionTTL = time.Nanosecond }, false},
		{"one second ttl", func(c *Config) { c.Scroll.SessionTTL = time.Second }, true},
		{"release without admin", func(c *Config) { c.Mode = "release" }, false},
		{"release with admin", func(c *Config) {
			c.Mode = "release"
			c.Admin = AdminConfig{Username: "zk", Password: "pw"}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestTrackerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scroll.HysteresisPx = 20

	opts := cfg.TrackerOptions([]string{"hero", "contact"})
	assert.Equal(t, []string{"hero", "contact"}, opts.Candidates)
	assert.Equal(t, 20.0, opts.HysteresisPx)
	assert.NoError(t, opts.Validate())

	cfg.Scroll.Sections = []string{"resume"}
	assert.Equal(t, []string{"resume"}, cfg.TrackerOptions([]string{"hero"}).Candidates)
}
