package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/moviebuddies/backend/internal/config"
	"github.com/moviebuddies/backend/internal/handlers"
	"github.com/moviebuddies/backend/internal/httpserver"
	"github.com/moviebuddies/backend/internal/middleware"
)

// Run bootstraps the MovieBuddies backend application.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve or migrate")
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "migrate":
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return runMigrations(ctx, cfg, args[1:], os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.SlogLevel(),
	}))
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	deps, cleanup, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := middleware.RequestLogger(logger)(handlers.NewRouter(deps))
	srv := httpserver.New(cfg.AppPort, handler, logger)

	logger.Info("starting moviebuddies",
		slog.Int("port", cfg.AppPort),
		slog.Bool("memory_store", cfg.UsesMemoryStore()),
		slog.String("token_mode", cfg.TokenMode),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
