package main

import (
	"context"
	"fmt"

	"github.com/deppfellow/users-api/internal/config"
	"github.com/deppfellow/users-api/internal/handler"
	"github.com/deppfellow/users-api/internal/logger"
	"github.com/deppfellow/users-api/internal/repository"
	"github.com/deppfellow/users-api/internal/server"
	"github.com/deppfellow/users-api/internal/service"
)

// app is everything a transport needs, wired in dependency order:
// config, logger, server container, repositories, services, handlers.
type app struct {
	server   *server.Server
	handlers *handler.Handlers
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, err
	}

	repos, err := repository.NewRepositories(ctx, srv)
	if err != nil {
		_ = srv.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	services := service.NewServices(srv, repos)

	return &app{
		server:   srv,
		handlers: handler.NewHandlers(srv, services, repos),
	}, nil
}
