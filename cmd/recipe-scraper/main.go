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

	"github.com/joho/godotenv"

	"github.com/use-agent/recipe-scraper/api"
	"github.com/use-agent/recipe-scraper/config"
	"github.com/use-agent/recipe-scraper/recipe"
	"github.com/use-agent/recipe-scraper/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	_ = godotenv.Load()
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	slog.SetDefault(cfg.Log.NewLogger(os.Stdout))
	slog.Info("recipe-scraper starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"browser", cfg.Browser.Enabled,
		"validate", cfg.Scrape.Validate,
	)

	// ── 3. Scraper and adapter ──────────────────────────────────────
	sc := scraper.New(cfg.Fetch, cfg.Browser)
	defer sc.Close()

	adapter := recipe.NewAdapter(sc, recipe.Options{
		Validate:          cfg.Scrape.Validate,
		AllowPrivateHosts: cfg.Scrape.AllowPrivateHosts,
	})

	// ── 4. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(adapter, cfg, sc.BrowserEnabled(), time.Now())

	// ── 5. Start HTTP server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// In-flight scrapes may take up to the fetch timeout.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Fetch.Timeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("recipe-scraper stopped")
}
