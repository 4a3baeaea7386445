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

	sqliteadapter "github.com/amckenna/studyhub/internal/adapter/driven/sqlite"
	httphandler "github.com/amckenna/studyhub/internal/adapter/driving/http"
	"github.com/amckenna/studyhub/internal/adapter/driving/web"
	"github.com/amckenna/studyhub/internal/application"
	"github.com/amckenna/studyhub/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"session_ttl", cfg.SessionTTL,
		"group_max_size", cfg.GroupMaxSize,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	groupStore := sqliteadapter.NewGroupRepo(db)
	kvStore := sqliteadapter.NewKVRepo(db)
	userStore := sqliteadapter.NewUserRepo(db)
	authSessionStore := sqliteadapter.NewAuthSessionRepo(db)

	// 6. Create application services.
	watch := application.NewWatchHub()
	ledgers := application.NewLedgerStore(kvStore, slog.Default())
	stopwatchSvc := application.NewStopwatchService(ledgers, slog.Default())
	groupSvc := application.NewGroupService(groupStore, watch, cfg.GroupMaxSize, slog.Default())
	authSvc := application.NewAuthService(
		userStore,
		authSessionStore,
		authSessionStore,
		cfg.SessionTTL,
		cfg.RateLimitWindow,
		cfg.RateLimitMax,
		slog.Default(),
	)

	// 7. Create HTTP handler and register routes.
	apiHandler := httphandler.NewHandler(authSvc, groupSvc, stopwatchSvc, watch, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)
	web.RegisterRoutes(mux)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
		// No WriteTimeout: the group watch stream stays open indefinitely.
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("studyhub started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
