package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Zachkp/portfolio/internal/scroll"
)

// Config is the site configuration, corresponding to portfolio.yml.
type Config struct {
	Port            string       `koanf:"port"`
	Mode            string       `koanf:"mode"`
	DatabasePath    string       `koanf:"database_path"`
	ContentPath     string       `koanf:"content_path"`
	RetentionMonths int          `koanf:"retention_months"`
	SMTP            SMTPConfig   `koanf:"smtp"`
	Admin           AdminConfig  `koanf:"admin"`
	Scroll          ScrollConfig `koanf:"scroll"`
}

// SMTPConfig holds outgoing mail settings for the contact form.
type SMTPConfig struct {
	Host string `koanf:"host"`
	Port string `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	To   string `koanf:"to"`
}

// AdminConfig holds the dashboard credentials.
type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// ScrollConfig tunes section tracking for beacon sessions.
type ScrollConfig struct {
	HysteresisPx   float64       `koanf:"hysteresis_px"`
	Debounce       time.Duration `koanf:"debounce"`
	VisibleAfterPx float64       `koanf:"visible_after_px"`
	Sections       []string      `koanf:"sections"`
	SessionTTL     time.Duration `koanf:"session_ttl"`
}

// DefaultConfig returns the development defaults. Credentials are left empty
// on purpose; the server falls back to dev credentials only in debug mode.
func DefaultConfig() *Config {
	return &Config{
		Port:            "8080",
		Mode:            "debug",
		DatabasePath:    "data/portfolio.db",
		RetentionMonths: 12,
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
		},
		Scroll: ScrollConfig{
			HysteresisPx:   scroll.DefaultHysteresisPx,
			Debounce:       scroll.DefaultDebounce,
			VisibleAfterPx: scroll.DefaultVisibleAfterPx,
			SessionTTL:     30 * time.Minute,
		},
	}
}

// envKeys maps the environment variables the site has always used onto
// config paths. Anything not listed is ignored.
var envKeys = map[string]string{
	"PORT":                    "port",
	"GIN_MODE":                "mode",
	"DATABASE_PATH":           "database_path",
	"CONTENT_PATH":            "content_path",
	"RETENTION_MONTHS":        "retention_months",
	"SMTP_HOST":               "smtp.host",
	"SMTP_PORT":               "smtp.port",
	"SMTP_USER":               "smtp.user",
	"SMTP_PASS":               "smtp.pass",
	"TO_EMAIL":                "smtp.to",
	"ADMIN_USERNAME":          "admin.username",
	"ADMIN_PASSWORD":          "admin.password",
	"SCROLL_HYSTERESIS_PX":    "scroll.hysteresis_px",
	"SCROLL_DEBOUNCE":         "scroll.debounce",
	"SCROLL_VISIBLE_AFTER_PX": "scroll.visible_after_px",
	"SCROLL_SECTIONS":         "scroll.sections",
	"SCROLL_SESSION_TTL":      "scroll.session_ttl",
}

// Load reads configuration from the given YAML file, if present, then
// overlays environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// comma separated in the environment, a list in YAML
	if raw, ok := k.Get("scroll.sections").(string); ok {
		if err := k.Set("scroll.sections", splitList(raw)); err != nil {
			return nil, fmt.Errorf("parsing scroll.sections: %w", err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var validModes = map[string]bool{
	"debug":   true,
	"release": true,
	"test":    true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if !validModes[c.Mode] {
		return fmt.Errorf("invalid mode %q: must be one of debug, release, test", c.Mode)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.RetentionMonths <= 0 {
		return fmt.Errorf("retention_months must be positive")
	}
	if c.Scroll.HysteresisPx < 0 {
		return fmt.Errorf("scroll.hysteresis_px must be non-negative")
	}
	if c.Scroll.Debounce < 0 {
		return fmt.Errorf("scroll.debounce must be non-negative")
	}
	if c.Scroll.SessionTTL < time.Second {
		return fmt.Errorf("scroll.session_ttl must be at least 1s, got %s", c.Scroll.SessionTTL)
	}
	if c.Mode == "release" && (c.Admin.Username == "" || c.Admin.Password == "") {
		return fmt.Errorf("admin credentials are required in release mode")
	}
	return nil
}

// MailConfigured reports whether SMTP credentials are present.
func (c *Config) MailConfigured() bool {
	return c.SMTP.User != "" && c.SMTP.Pass != ""
}

// TrackerOptions turns the scroll settings into tracker options for the
// given candidate sections. Configured sections win over the fallback.
func (c *Config) TrackerOptions(fallback []string) scroll.Options {
	sections := c.Scroll.Sections
	if len(sections) == 0 {
		sections = fallback
	}
	opts := scroll.DefaultOptions(sections...)
	opts.HysteresisPx = c.Scroll.HysteresisPx
	opts.VisibleAfterPx = c.Scroll.VisibleAfterPx
	if c.Scroll.Debounce > 0 {
		opts.Debounce = c.Scroll.Debounce
	}
	return opts
}
