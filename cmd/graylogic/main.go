// Gray Logic Core - Device Runtime & Script Engine
//
// This is the main entry point for the Gray Logic Core application: a
// single-process device tree and script-engine runtime. It loads a
// device configuration and script set, runs them against a
// cooperative dispatch loop, and exposes a single-verb command
// interface over HTTP, WebSocket, and serial front-ends.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/gray-logic-core/internal/audit"
	"github.com/nerrad567/gray-logic-core/internal/devicetree"
	"github.com/nerrad567/gray-logic-core/internal/dispatch"
	"github.com/nerrad567/gray-logic-core/internal/frontend"
	"github.com/nerrad567/gray-logic-core/internal/history"
	"github.com/nerrad567/gray-logic-core/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-core/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-core/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-core/internal/infrastructure/tsdb"
	"github.com/nerrad567/gray-logic-core/internal/runtime"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// defaultConfigPath is used when GRAYLOGIC_CONFIG is not set.
const defaultConfigPath = "./config/config.yaml"

// shutdownGrace bounds how long the HTTP server waits for in-flight
// command requests to finish once shutdown begins.
const shutdownGrace = 5 * time.Second

// auditTimeout bounds each audit-log write triggered off the dispatch
// loop thread (spec.md §2 expansion "command-queue audit trail"); the
// loop itself carries no per-command context to thread through.
const auditTimeout = 2 * time.Second

func main() {
	// Print startup banner
	fmt.Printf("Gray Logic Core %s (%s) built %s\n", version, commit, date)
	fmt.Println("Building Intelligence Platform")
	fmt.Println("---")

	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	// This is the Go pattern for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the application
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath returns the configuration file path, honouring the
// GRAYLOGIC_CONFIG environment variable override.
func getConfigPath() string {
	if v := os.Getenv("GRAYLOGIC_CONFIG"); v != "" {
		return v
	}
	return defaultConfigPath
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	fmt.Println("Starting Gray Logic Core...")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log := logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck // best effort on shutdown path

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	auditRepo := audit.NewSQLiteRepository(db.DB)

	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	mqttClient.SetLogger(log)
	defer mqttClient.Close() //nolint:errcheck // best effort on shutdown path

	sinks := buildHistorySinks(ctx, cfg, db, log)

	buildCtx := &devicetree.BuildContext{
		DeviceID: cfg.Site.ID,
		Log:      log,
		MQTT:     runtime.NewMQTTAdapter(mqttClient),
		HTTP:     runtime.NewHTTPFetcher(),
	}

	root, scr, err := runtime.LoadAll(cfg.Runtime.DeviceConfigPath, cfg.Runtime.ScriptDir, buildCtx)
	if err != nil {
		return fmt.Errorf("loading device tree: %w", err)
	}

	loop := dispatch.New(log, time.Duration(cfg.Runtime.TickIntervalMS)*time.Millisecond)
	loop.SetDeviceID(cfg.Site.ID)
	loop.SetTree(root)
	loop.SetScript(scr)
	loop.SetHistorySink(sinks)
	loop.SetAuditFunc(func(cmd, resp string) {
		auditCtx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		_ = auditRepo.Create(auditCtx, &audit.AuditLog{
			Action:     "command",
			EntityType: "command",
			Source:     "dispatch",
			Details:    map[string]any{"cmd": cmd, "resp": resp},
		})
	})

	reload := func() error {
		newRoot, newScript, err := runtime.LoadAll(cfg.Runtime.DeviceConfigPath, cfg.Runtime.ScriptDir, buildCtx)
		if err != nil {
			return err
		}
		loop.SetTree(newRoot)
		loop.SetScript(newScript)
		return nil
	}
	loop.Dispatcher().Reload = reload
	loop.Dispatcher().ReloadScr = reload
	loop.Dispatcher().LogTail = log.Tail
	loop.Dispatcher().ListGPIOs = func() []string { return nil }

	bearerSecret := ""
	if cfg.Security.APIKeys.Enabled {
		bearerSecret = cfg.Security.JWT.Secret
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.WebSocket.Path, frontend.NewWebSocketHandler(loop.Queue, bearerSecret))
	mux.Handle("/", frontend.NewHTTPHandler(loop.Queue, bearerSecret))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		Handler:      mux,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  cfg.GetIdleTimeout(),
	}

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	go loop.Run(loopCtx)

	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	fmt.Println("Initialisation complete. Waiting for shutdown signal...")

	select {
	case <-ctx.Done():
		fmt.Println("\nShutdown signal received. Cleaning up...")
	case err := <-serveErr:
		if err != nil {
			stopLoop()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http server shutdown error", "error", err)
	}
	stopLoop()

	fmt.Println("Gray Logic Core stopped.")
	return nil
}

// buildHistorySinks wires every configured value-history sink
// (spec.md §4.13 expansion) into one fanout: InfluxDB and/or TSDB when
// enabled, and SQLite as the always-available fallback so history
// survives even on a site with no time-series backend configured.
func buildHistorySinks(ctx context.Context, cfg *config.Config, db *database.DB, log *logging.Logger) history.Fanout {
	fanoutSinks := make(history.Fanout, 0, 3)
	if cfg.InfluxDB.Enabled {
		if client, err := influxdb.Connect(ctx, cfg.InfluxDB); err != nil {
			log.Warn("influxdb connect failed, history will not be written there", "error", err)
		} else {
			fanoutSinks = append(fanoutSinks, history.NewTimeSeriesSink(client))
		}
	}
	if cfg.TSDB.Enabled {
		if client, err := tsdb.Connect(ctx, cfg.TSDB); err != nil {
			log.Warn("tsdb connect failed, history will not be written there", "error", err)
		} else {
			fanoutSinks = append(fanoutSinks, history.NewTimeSeriesSink(client))
		}
	}
	fanoutSinks = append(fanoutSinks, history.NewSQLiteSink(db.DB))
	return fanoutSinks
}
