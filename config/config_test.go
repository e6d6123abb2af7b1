package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoad_Defaults(t *testing.T) {
	// GIVEN no file, environment or flags
	// WHEN loading
	cfg, err := Load(nil, env(nil))

	// THEN development defaults apply
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "timesheet.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.PolicyFile)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.CloseInterval)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_Precedence(t *testing.T) {
	// GIVEN a config file, environment overrides and a flag
	dir := t.TempDir()
	path := filepath.Join(dir, "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"port": 9000,
		"db_path": "file.db",
		"log_level": "debug",
		"shutdown_timeout": "5s",
		"close_interval": "0s",
		"allowed_origins": ["https://app.example.com"]
	}`), 0o600))

	vars := map[string]string{
		EnvDBPath:    "env.db",
		EnvLogFormat: "json",
	}

	// WHEN loading
	cfg, err := Load([]string{"--config", path, "--port", "9100"}, env(vars))

	// THEN flags beat env, env beats the file, the file beats defaults
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "env.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Zero(t, cfg.CloseInterval)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_EnvOnly(t *testing.T) {
	cfg, err := Load(nil, env(map[string]string{
		EnvPort:            "7000",
		EnvPolicyFile:      "policy.json",
		EnvAllowedOrigins:  "http://a, http://b ,",
		EnvShutdownTimeout: "1m",
		EnvCloseInterval:   "15m",
	}))

	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "policy.json", cfg.PolicyFile)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
	assert.Equal(t, 15*time.Minute, cfg.CloseInterval)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{
		"-p", "8181",
		"--db", ":memory:",
		"--log-level", "warn",
		"--log-format", "json",
		"--policy-file", "p.json",
		"--shutdown-timeout", "10s",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "p.json", cfg.PolicyFile)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"port": "x"}`), 0o600))
	badDuration := filepath.Join(dir, "dur.json")
	require.NoError(t, os.WriteFile(badDuration, []byte(`{"shutdown_timeout": "soon"}`), 0o600))

	tests := []struct {
		name string
		args []string
		vars map[string]string
	}{
		{"unknown flag", []string{"--nope"}, nil},
		{"missing config file", []string{"--config", filepath.Join(dir, "missing.json")}, nil},
		{"malformed config file", []string{"--config", bad}, nil},
		{"bad duration in file", []string{"--config", badDuration}, nil},
		{"non-numeric env port", nil, map[string]string{EnvPort: "eighty"}},
		{"bad env duration", nil, map[string]string{EnvShutdownTimeout: "later"}},
		{"port out of range", []string{"--port", "70000"}, nil},
		{"empty db path", []string{"--db", ""}, nil},
		{"bad log format", []string{"--log-format", "xml"}, nil},
		{"zero shutdown timeout", []string{"--shutdown-timeout", "0s"}, nil},
		{"negative close interval", []string{"--close-interval=-1m"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, env(tt.vars))
			assert.Error(t, err)
		})
	}
}

func TestUsage_ListsFlags(t *testing.T) {
	usage := Usage()
	for _, flag := range []string{"--port", "--db", "--log-level", "--log-format", "--policy-file", "--config"} {
		assert.Contains(t, usage, flag)
	}
}
