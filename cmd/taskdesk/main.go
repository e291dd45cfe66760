// @title			TaskDesk API
// @version		1.0
// @description	Task workflow backend with audited lifecycle, branch-scoped access, and realtime dashboards.
// @BasePath		/api/v1

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mendbayar/taskdesk/internal/cache"
	"github.com/mendbayar/taskdesk/internal/config"
	"github.com/mendbayar/taskdesk/internal/database"
	"github.com/mendbayar/taskdesk/internal/handler"
	"github.com/mendbayar/taskdesk/internal/logger"
	"github.com/mendbayar/taskdesk/internal/repository"
	"github.com/mendbayar/taskdesk/pkg/auth"
)

func main() {
	// Missing .env is fine; the environment may be set by the deployment.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "taskdesk",
		Usage: "Task workflow backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Action: runServe,
			},
			{
				Name:   "rebuild-stats",
				Usage:  "Force a full rebuild of the dashboard counters from the task store",
				Action: runRebuildStats,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()

	db, err := database.New(ctx, database.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer rdb.Close()

	// Connections from a previous process are gone; drop their bookkeeping.
	if err := cache.NewPresence(rdb).ClearStale(ctx); err != nil {
		return fmt.Errorf("failed to clear stale presence: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	h := handler.New(db, rdb, tokens, cfg.Timezone())

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runRebuildStats(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()

	db, err := database.New(ctx, database.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer rdb.Close()

	stats := cache.NewStats(rdb, cfg.Timezone())
	counters, err := stats.Rebuild(ctx, repository.NewTaskRepository(db.Pool()))
	if err != nil {
		return fmt.Errorf("failed to rebuild counters: %w", err)
	}

	slog.Info("counters rebuilt",
		"total", counters.Total,
		"pending", counters.Pending,
		"active", counters.Active,
		"in_progress", counters.InProgress,
		"completed", counters.Completed,
		"reviewed", counters.Reviewed,
		"overdue", counters.Overdue,
	)

	return nil
}
