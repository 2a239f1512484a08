package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/drawguess/internal/ai"
	"github.com/udisondev/drawguess/internal/config"
	"github.com/udisondev/drawguess/internal/gameserver"
	"github.com/udisondev/drawguess/internal/store"
)

const defaultConfigPath = "config/drawserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath := flag.String("config", defaultConfigPath, "path to the YAML config file")
	flag.Parse()

	// Optional .env for credentials that should stay out of the YAML.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("loading .env failed", "err", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if url := os.Getenv("DRAWGUESS_DB_URL"); url != "" {
		cfg.Database.URL = url
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	})))

	slog.Info("draw server starting",
		"address", cfg.Server.Addr(),
		"log_level", cfg.Logging.Level)

	repo, err := store.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer repo.Close()
	slog.Info("database connected")

	if err := store.RunMigrations(ctx, cfg.Database.URL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	scorer := ai.NewClient(cfg.AI.Host, cfg.AI.Port, cfg.AI.Timeout)
	telemetry := store.NewTelemetryWriter(repo)

	srv := gameserver.NewServer(cfg, repo, scorer,
		gameserver.WithTelemetry(telemetry))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ServeTCP(gctx)
	})
	g.Go(func() error {
		return srv.ServeUDP(gctx)
	})
	g.Go(func() error {
		return srv.RunTimer(gctx)
	})
	g.Go(func() error {
		return telemetry.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	slog.Info("draw server stopped")
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
