package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	mid "MatchCast/internal/middleware"
	pkgch "MatchCast/pkg/clickhouse"
	"MatchCast/pkg/config"
	xhttp "MatchCast/pkg/http"
	applogger "MatchCast/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	chClient    *pkgch.Client
	pipeline    *mid.SinkPipeline
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	logger      *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	chClient *pkgch.Client,
	pipeline *mid.SinkPipeline,
	handler xhttp.Handler,
	logger *applogger.Logger,
) *App {
	return &App{
		cfg:         cfg,
		chClient:    chClient,
		pipeline:    pipeline,
		httpHandler: handler,
		logger:      logger,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.logger),
	)

	// Start background sink flusher
	if a.pipeline != nil {
		a.pipeline.Start(ctx)
		a.logger.Info("sink pipeline started")
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("prediction api listening", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger
	if l == nil {
		var err error
		l, err = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
		if err != nil {
			log.Printf("failed to create logger: %v", err)
			return err
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop the sink pipeline and its backend
	if a.pipeline != nil {
		if err := a.pipeline.Close(); err != nil {
			l.Warn("sink pipeline close error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
