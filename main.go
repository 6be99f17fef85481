package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Anikhe00/alx-polling-app/auth"
	"github.com/Anikhe00/alx-polling-app/cliparse"
	"github.com/Anikhe00/alx-polling-app/db"
	"github.com/Anikhe00/alx-polling-app/metrics"
	"github.com/Anikhe00/alx-polling-app/router"
	"github.com/Anikhe00/alx-polling-app/store"
)

func main() {
	var err error

	// Load .env if present; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbConn, err := db.Open(openCtx, cfg.DatabaseType, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	st := store.New(dbConn, cfg.DatabaseType)

	// Session revocation is shared through Redis when configured
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.RedisURL != "" {
		rr, err := auth.NewRedisRevoker(cfg.RedisURL)
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer rr.Close()
		revoker = rr
		slog.Info("Using redis session revocation")
	}

	provider := auth.NewProvider(st, cfg.SessionSecret, auth.Options{
		SessionTTL:               cfg.SessionTTL,
		RequireEmailConfirmation: cfg.RequireEmailConfirmation,
		BaseURL:                  cfg.BaseURL,
		Revoker:                  revoker,
	})

	// Background work
	metrics.Init()
	go metrics.CollectRuntimeMetrics(ctx.Done(), 15*time.Second)
	go st.RunJanitor(ctx, cfg.OrphanSweepInterval)

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(st, provider, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "base_url", cfg.BaseURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
