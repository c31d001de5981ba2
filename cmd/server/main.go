package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Karthik-guddanti/product-client/internal/config"
	"github.com/Karthik-guddanti/product-client/internal/inventory"
	"github.com/Karthik-guddanti/product-client/internal/logging"
	"github.com/Karthik-guddanti/product-client/internal/store"
	"github.com/Karthik-guddanti/product-client/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"backend", cfg.Store.Backend,
		"items_per_page", cfg.View.ItemsPerPage,
	)

	ctx := context.Background()

	productStore, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize product store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Create the view orchestrator and fetch the initial collection.
	// A failed first load is not fatal: the view renders empty with the
	// error surfaced, and /api/view/reload can recover once the store is up.
	view := inventory.NewView(productStore, inventory.ViewConfig{
		ItemsPerPage:  cfg.View.ItemsPerPage,
		PageWindow:    cfg.View.PageWindow,
		LowStockBelow: cfg.View.LowStockBelow,
	})
	if err := view.Reload(ctx); err != nil {
		slog.Warn("initial product load failed", "error", err)
	}

	server := web.NewServer(view, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// buildStore constructs the configured store adapter. The returned cleanup
// releases any held resources and is safe to call unconditionally.
func buildStore(ctx context.Context, cfg *config.Config) (inventory.Store, func(), error) {
	noop := func() {}

	switch strings.ToLower(cfg.Store.Backend) {
	case config.BackendMemory:
		slog.Info("using in-memory product store")
		return store.NewMemory(), noop, nil

	case config.BackendPostgres:
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			return nil, noop, err
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, noop, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}

		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}

		if u, err := url.Parse(cfg.Database.URL); err == nil {
			slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to database")
		}
		return pg, pool.Close, nil

	default:
		slog.Info("using hosted product API", "url", cfg.Store.APIURL)
		return store.NewREST(cfg.Store.APIURL, cfg.Store.APIKey, cfg.Store.Timeout), noop, nil
	}
}
