package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SentiCast/internal/handler/api"
	"SentiCast/internal/service/ratelimit"
	"SentiCast/internal/usecase"
	xhttp "SentiCast/pkg/http"
	pkgkafka "SentiCast/pkg/kafka"
	applogger "SentiCast/pkg/logger"
)

const (
	limiterPruneEvery = time.Minute
	limiterIdle       = 10 * time.Minute
)

// App encapsulates the entire application lifecycle.
type App struct {
	l          *applogger.Logger
	catalog    *usecase.CatalogService
	httpServer *xhttp.Server
	scheduler  *usecase.ReloadScheduler
	consumer   *pkgkafka.Consumer
	hub        *api.CatalogHub
	limiter    *ratelimit.Limiter
}

// New creates a new App instance with all dependencies. consumer may be nil.
func New(
	l *applogger.Logger,
	catalog *usecase.CatalogService,
	httpServer *xhttp.Server,
	scheduler *usecase.ReloadScheduler,
	consumer *pkgkafka.Consumer,
	hub *api.CatalogHub,
	limiter *ratelimit.Limiter,
) *App {
	return &App{
		l:          l,
		catalog:    catalog,
		httpServer: httpServer,
		scheduler:  scheduler,
		consumer:   consumer,
		hub:        hub,
		limiter:    limiter,
	}
}

// Run starts the application and blocks until interrupted or ctx ends.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A failed first load is not fatal: the API answers 503 until a later
	// trigger succeeds.
	if _, err := a.catalog.Reload(ctx, false); err != nil {
		a.l.Warn("initial catalog load failed", applogger.Error(err))
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}

	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			a.scheduler.Stop()
			return err
		}
	}

	if a.limiter != nil {
		go a.pruneLimiter(ctx)
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return errors.Join(err, a.shutdown())
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info("shutdown signal received")
	case runErr = <-a.httpServer.Errors():
	}
	return errors.Join(runErr, a.shutdown())
}

func (a *App) pruneLimiter(ctx context.Context) {
	ticker := time.NewTicker(limiterPruneEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.limiter.Prune(limiterIdle); n > 0 {
				a.l.Debug("rate limiter pruned", applogger.Int("buckets", n))
			}
		}
	}
}

// shutdown stops inbound work first, then background triggers.
func (a *App) shutdown() error {
	ctx := context.Background()
	var errs []error

	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if a.hub != nil {
		a.hub.Close()
	}

	a.scheduler.Stop()

	if a.consumer != nil {
		stopCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := a.consumer.Stop(stopCtx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.l.Info("shutdown complete")
	return errors.Join(errs...)
}
