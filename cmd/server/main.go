/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the timesheet engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (defaults, --config file, environment, flags)
  2. Initialize structured logger
  3. Initialize SQLite store
  4. Import the startup policy file, if any
  5. Create API handler and router
  6. Start the pay period close scheduler
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -p, --port              HTTP server port (default: 8080)
      --db                SQLite database path (default: timesheet.db)
                          Use ":memory:" for in-memory database
      --log-level         debug, info, warn, error (default: info)
      --log-format        text or json (default: text)
      --policy-file       Policy JSON imported (upserted) at startup
      --allowed-origins   CORS origins
      --shutdown-timeout  Grace period for in-flight requests (default: 30s)
      --close-interval    Pay period close check interval (default: 1h, 0 disables)
  -c, --config            JSON config file

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (shutdown timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server --db=./data/timesheet.db

  # Run with in-memory database and a policy
  ./server --db=:memory: --policy-file=policies/standard.json

  # Run on different port with JSON logs
  ./server --port=3000 --log-format=json

ENVIRONMENT:
  TIMESHEET_PORT, TIMESHEET_DB, TIMESHEET_LOG_LEVEL, TIMESHEET_LOG_FORMAT,
  TIMESHEET_POLICY_FILE, TIMESHEET_ALLOWED_ORIGINS, TIMESHEET_SHUTDOWN_TIMEOUT,
  TIMESHEET_CLOSE_INTERVAL. Flags override the environment.

SEE ALSO:
  - config/config.go: Configuration layers
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/timesheet-engine/api"
	"github.com/warp/timesheet-engine/config"
	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/logging"
	"github.com/warp/timesheet-engine/store/sqlite"
	"github.com/warp/timesheet-engine/timesheet"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// run starts the server and blocks until ctx is cancelled.
func run(ctx context.Context, args []string, getenv func(string) string, logOut io.Writer) error {
	cfg, err := config.Load(args, getenv)
	if err != nil {
		return fmt.Errorf("config: %w\n\nFlags:\n%s", err, config.Usage())
	}

	logger, err := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	if cfg.PolicyFile != "" {
		if err := importPolicy(ctx, store, cfg.PolicyFile); err != nil {
			return err
		}
		logger.Info(ctx, "policy imported", "file", cfg.PolicyFile)
	}

	// Initialize handler and router
	handler := api.NewHandler(store, logger)
	router := api.NewRouter(handler, cfg.AllowedOrigins...)

	scheduler := api.NewPeriodCloseScheduler(handler)
	scheduler.CheckInterval = cfg.CloseInterval
	scheduler.Enabled = cfg.CloseInterval > 0
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting", "addr", cfg.Addr(), "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down server", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info(context.Background(), "server stopped")
	return nil
}

// importPolicy upserts the policy in path.
func importPolicy(ctx context.Context, store timesheet.PolicyStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read policy file: %w", err)
	}
	policy, err := factory.NewPolicyFactory().ParsePolicy(string(data))
	if err != nil {
		return fmt.Errorf("policy file %s: %w", path, err)
	}
	if policy.ID == "" {
		return fmt.Errorf("policy file %s: id is required", path)
	}
	return store.SavePolicy(ctx, policy)
}
