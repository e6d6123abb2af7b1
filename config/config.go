// Package config handles configuration for the timesheet server: defaults,
// an optional JSON file, environment variables and command-line flags, in
// that order of precedence (later wins).
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the timesheet server.
//
// Fields:
//   - Port: HTTP listen port.
//   - DBPath: SQLite database path; ":memory:" for a throwaway database.
//   - LogLevel / LogFormat: slog level (debug, info, warn, error) and
//     handler ("text" or "json").
//   - PolicyFile: optional policy JSON imported at startup.
//   - AllowedOrigins: CORS origins of the web client.
//   - ShutdownTimeout: grace period for in-flight requests.
//   - CloseInterval: how often ended pay periods are computed; 0 disables.
type Config struct {
	Port            int
	DBPath          string
	LogLevel        string
	LogFormat       string
	PolicyFile      string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	CloseInterval   time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Port = 8080
	c.DBPath = "timesheet.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.PolicyFile = ""
	c.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	c.ShutdownTimeout = 30 * time.Second
	c.CloseInterval = time.Hour
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q (use text or json)", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if c.CloseInterval < 0 {
		return fmt.Errorf("close interval must not be negative")
	}
	return nil
}

// Addr is the listen address for net/http.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load builds a Config by applying defaults, then overlaying values from an
// optional JSON file (--config), the environment and finally command-line
// flags. args excludes the program name.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, err := configFileFlag(args)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := parseJSONFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg, getenv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
