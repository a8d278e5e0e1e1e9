package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nate99091/crypto/internal/domain/repository"
	"github.com/Nate99091/crypto/internal/usecase"
	"github.com/Nate99091/crypto/pkg/cache"
	"github.com/Nate99091/crypto/pkg/config"
	xhttp "github.com/Nate99091/crypto/pkg/http"
	applogger "github.com/Nate99091/crypto/pkg/logger"
)

// App encapsulates the application lifecycle: periodic engine runs plus
// the HTTP results API.
type App struct {
	cfg        *config.Config
	engine     *usecase.Engine
	results    *usecase.Results
	store      repository.HistoryStore
	publisher  repository.Publisher
	cache      cache.Service
	logger     *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates an App instance with all dependencies.
func New(
	cfg *config.Config,
	engine *usecase.Engine,
	results *usecase.Results,
	store repository.HistoryStore,
	publisher repository.Publisher,
	cacheSvc cache.Service,
	log *applogger.Logger,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		engine:    engine,
		results:   results,
		store:     store,
		publisher: publisher,
		cache:     cacheSvc,
		logger:    log,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted. The engine runs
// once at startup, then on every poll interval tick.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	go a.pollLoop(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) pollLoop(ctx context.Context) {
	a.runOnce(ctx)

	interval := a.cfg.Fetch.PollInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runOnce(ctx)
		}
	}
}

func (a *App) runOnce(ctx context.Context) {
	report, err := a.engine.Run(ctx)
	if err != nil {
		a.logger.Error("engine run failed", applogger.Error(err))
		return
	}
	a.results.Set(report)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("store close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
