// Command tracker serves the project tracker core over HTTP.
//
//	@title			Project Tracker API
//	@version		1.0
//	@description	Session, project and notification endpoints over an emulated backend.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	_ "github.com/trackly/project-tracker/docs"
	"github.com/trackly/project-tracker/internal/api"
	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/persistence"
	"github.com/trackly/project-tracker/internal/core/ports"
	"github.com/trackly/project-tracker/internal/core/service"
	"github.com/trackly/project-tracker/internal/core/validation"
	"github.com/trackly/project-tracker/internal/infrastructure/config"
	"github.com/trackly/project-tracker/internal/infrastructure/db/memory"
	"github.com/trackly/project-tracker/internal/infrastructure/db/mongo"
	"github.com/trackly/project-tracker/internal/infrastructure/db/redis"
	"github.com/trackly/project-tracker/internal/infrastructure/db/sqlite"
	"github.com/trackly/project-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "project-tracker",
	})

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()
	log.Info().Str("driver", cfg.Storage.Driver).Msg("storage ready")

	adapter := persistence.NewAdapter(store, cfg.Latency.Default, logger.Component(log, "persistence"))

	auth, err := service.NewAuthService(ctx, adapter, service.AuthOptions{
		TokenSecret: cfg.TokenSecret,
		Latency:     cfg.Latency.Login,
	}, logger.Component(log, "auth"))
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	events, cancelEvents := auth.Subscribe()
	defer cancelEvents()
	go logSessionEvents(events, logger.Component(log, "session"))

	projects := service.NewProjectRepository(adapter, service.ProjectLatency{
		List:   cfg.Latency.List,
		Create: cfg.Latency.Create,
		Mutate: cfg.Latency.Mutate,
	}, logger.Component(log, "projects"))
	notifications := service.NewNotificationQueue(logger.Component(log, "notifications"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e, err := api.NewRouter(api.Deps{
		Auth:          auth,
		Projects:      projects,
		Notifications: notifications,
		Forms:         validation.New(),
		Store:         store,
		StorageDriver: cfg.Storage.Driver,
		Registry:      reg,
		Log:           logger.Component(log, "http"),
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.StorageConfig) (ports.KVStore, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLitePath})
	case config.DriverRedis:
		return redis.Open(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.DriverMongo:
		return mongo.Open(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
	case config.DriverMemory:
		return memory.NewKVStore(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func logSessionEvents(events <-chan domain.SessionEvent, log zerolog.Logger) {
	for ev := range events {
		if ev.Authenticated {
			log.Info().Int64("user_id", ev.User.ID).Str("role", string(ev.User.Role)).Msg("session started")
			continue
		}
		log.Info().Msg("session ended")
	}
}
