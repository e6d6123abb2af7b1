package config

import (
	"io"

	"github.com/spf13/pflag"
)

// newFlagSet declares every server flag with the current config values as
// defaults, so unset flags leave earlier layers untouched.
//
//	-p, --port int              HTTP server port
//	    --db string             SQLite database path (":memory:" for in-memory)
//	    --log-level string      debug, info, warn or error
//	    --log-format string     text or json
//	    --policy-file string    policy JSON imported at startup
//	    --allowed-origins list  CORS origins
//	    --shutdown-timeout dur  grace period on SIGINT/SIGTERM
//	    --close-interval dur    pay period close check interval (0 disables)
//	-c, --config string         JSON config file
func newFlagSet(cfg *Config) (*pflag.FlagSet, *string) {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")
	fs.StringVar(&cfg.PolicyFile, "policy-file", cfg.PolicyFile, "policy JSON file imported at startup")
	fs.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", cfg.AllowedOrigins, "CORS allowed origins")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	fs.DurationVar(&cfg.CloseInterval, "close-interval", cfg.CloseInterval, "pay period close check interval (0 disables)")
	configFile := fs.StringP("config", "c", "", "JSON config file")
	return fs, configFile
}

// configFileFlag finds --config before the other layers are applied.
func configFileFlag(args []string) (string, error) {
	fs, configFile := newFlagSet(&Config{})
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *configFile, nil
}

func parseFlags(cfg *Config, args []string) error {
	fs, _ := newFlagSet(cfg)
	return fs.Parse(args)
}

// Usage renders the flag help text.
func Usage() string {
	cfg := &Config{}
	cfg.LoadDefaults()
	fs, _ := newFlagSet(cfg)
	return fs.FlagUsages()
}
