package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mmynk/expensegenie/internal/auth"
	"github.com/mmynk/expensegenie/internal/cache"
	"github.com/mmynk/expensegenie/internal/config"
	"github.com/mmynk/expensegenie/internal/metrics"
	"github.com/mmynk/expensegenie/internal/server"
	"github.com/mmynk/expensegenie/internal/storage/sqlite"
	"github.com/mmynk/expensegenie/pkg/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DB.Path)

	balances, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer balances.Close()

	var google *auth.GoogleAuthenticator
	if cfg.Google.ClientID != "" {
		google = auth.NewGoogleAuthenticator(auth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
		}, store)
		slog.Info("Google sign-in enabled", "redirect_url", cfg.Google.RedirectURL)
	}

	srv := server.New(server.Options{
		Store:           store,
		Cache:           balances,
		Metrics:         metrics.New(),
		JWT:             auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.AdminEmails),
		Google:          google,
		DefaultCurrency: cfg.Currency.Default,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		StaticPath:      cfg.Server.StaticPath,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

// newCache connects to Redis when configured and otherwise keeps balances
// in process.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.Redis.Addr == "" {
		slog.Info("Balances cache in memory", "ttl", cfg.Cache.TTL)
		return cache.NewMemory(cfg.Cache.TTL), nil
	}
	c, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("Balances cache enabled", "redis", cfg.Redis.Addr, "ttl", cfg.Cache.TTL)
	return c, nil
}
