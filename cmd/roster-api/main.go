// main is the entry point of the trainer roster API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open storage (SQLite file or in-memory)
//  4. Build the roster manager on top of it
//  5. Register HTTP routes and start the server in a goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/roster-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/roster-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/trainer-roster/internal/config"
	"github.com/aanand-mishra/trainer-roster/internal/http/handlers/student"
	"github.com/aanand-mishra/trainer-roster/internal/logging"
	"github.com/aanand-mishra/trainer-roster/internal/metrics"
	"github.com/aanand-mishra/trainer-roster/internal/roster"
	"github.com/aanand-mishra/trainer-roster/internal/storage"
	"github.com/aanand-mishra/trainer-roster/internal/storage/memory"
	"github.com/aanand-mishra/trainer-roster/internal/storage/sqlite"
	"github.com/aanand-mishra/trainer-roster/internal/types"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := logging.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting roster-api",
		slog.String("env", cfg.Env),
		slog.Int("max_students", cfg.Roster.MaxStudents),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	store, closeStore, err := openStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	// ── 4. Roster Manager ─────────────────────────────────────────────────
	m := metrics.New()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	manager, err := roster.New(ctx, store, roster.Options{
		Max:         cfg.Roster.MaxStudents,
		AddDelay:    cfg.Roster.AddDelay,
		MutateDelay: cfg.Roster.MutateDelay,
		Logger:      log,
		Recorder:    m,
	})
	cancel()
	if err != nil {
		log.Error("failed to load roster",
			slog.String("error", err.Error()))
		closeStore()
		os.Exit(1)
	}

	log.Info("roster loaded",
		slog.Int("students", manager.Len()),
		slog.Int("remaining_slots", manager.RemainingSlots()),
	)

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	router := http.NewServeMux()
	student.Register(router, manager)
	router.Handle("GET /metrics", m.Handler())

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		// WriteTimeout must outlast the simulated add latency.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10*time.Second + cfg.Roster.AddDelay,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("shutdown signal received, stopping server...")
	case err := <-serverErr:
		log.Error("server encountered an error",
			slog.String("error", err.Error()))
		closeStore()
		os.Exit(1)
	}

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	// In-flight mutations cannot be cancelled once they reach storage, so
	// give them at least one add latency to finish.
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second+cfg.Roster.AddDelay)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// openStorage picks SQLite when a storage path is configured and an
// in-memory store otherwise. The returned func closes it.
func openStorage(cfg *config.Config) (storage.Storage, func(), error) {
	if cfg.StoragePath == "" {
		var seed []types.Student
		if cfg.SeedDemo {
			seed = memory.Demo(time.Now())
		}
		slog.Info("using in-memory storage", slog.Int("seeded", len(seed)))
		return memory.New(seed...), func() {}, nil
	}

	db, err := sqlite.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("using sqlite storage", slog.String("path", cfg.StoragePath))
	return db, func() { db.Close() }, nil
}
