package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONConfig is the on-disk shape of a config file. Absent fields keep the
// value from the previous layer.
type JSONConfig struct {
	Port            *int     `json:"port"`
	DBPath          *string  `json:"db_path"`
	LogLevel        *string  `json:"log_level"`
	LogFormat       *string  `json:"log_format"`
	PolicyFile      *string  `json:"policy_file"`
	AllowedOrigins  []string `json:"allowed_origins"`
	ShutdownTimeout *string  `json:"shutdown_timeout"` // e.g. "30s"
	CloseInterval   *string  `json:"close_interval"`   // e.g. "1h", "0s" disables
}

func parseJSONFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return parseJSON(cfg, data)
}

func parseJSON(cfg *Config, data []byte) error {
	var c JSONConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if c.Port != nil {
		cfg.Port = *c.Port
	}
	if c.DBPath != nil {
		cfg.DBPath = *c.DBPath
	}
	if c.LogLevel != nil {
		cfg.LogLevel = *c.LogLevel
	}
	if c.LogFormat != nil {
		cfg.LogFormat = *c.LogFormat
	}
	if c.PolicyFile != nil {
		cfg.PolicyFile = *c.PolicyFile
	}
	if c.AllowedOrigins != nil {
		cfg.AllowedOrigins = c.AllowedOrigins
	}
	if c.ShutdownTimeout != nil {
		d, err := time.ParseDuration(*c.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid shutdown_timeout %q: %w", *c.ShutdownTimeout, err)
		}
		cfg.ShutdownTimeout = d
	}
	if c.CloseInterval != nil {
		d, err := time.ParseDuration(*c.CloseInterval)
		if err != nil {
			return fmt.Errorf("invalid close_interval %q: %w", *c.CloseInterval, err)
		}
		cfg.CloseInterval = d
	}
	return nil
}
