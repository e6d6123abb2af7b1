package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by parseEnv.
const (
	EnvPort            = "TIMESHEET_PORT"
	EnvDBPath          = "TIMESHEET_DB"
	EnvLogLevel        = "TIMESHEET_LOG_LEVEL"
	EnvLogFormat       = "TIMESHEET_LOG_FORMAT"
	EnvPolicyFile      = "TIMESHEET_POLICY_FILE"
	EnvAllowedOrigins  = "TIMESHEET_ALLOWED_ORIGINS" // comma-separated
	EnvShutdownTimeout = "TIMESHEET_SHUTDOWN_TIMEOUT"
	EnvCloseInterval   = "TIMESHEET_CLOSE_INTERVAL"
)

func parseEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Port = port
	}
	if v := getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := getenv(EnvPolicyFile); v != "" {
		cfg.PolicyFile = v
	}
	if v := getenv(EnvAllowedOrigins); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := getenv(EnvShutdownTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvShutdownTimeout, v, err)
		}
		cfg.ShutdownTimeout = d
	}
	if v := getenv(EnvCloseInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvCloseInterval, v, err)
		}
		cfg.CloseInterval = d
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
