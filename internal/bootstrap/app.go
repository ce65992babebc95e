package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/arizet/hashtagd/internal/infra/config"
)

// shutdownGrace is how long in-flight generations get to finish once a
// termination signal arrives; generation calls can be slow, so this stays
// generous.
const shutdownGrace = 10 * time.Second

// App owns the HTTP server lifecycle: serve until the context is canceled,
// then drain.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// NewApp is the Wire provider for the runnable application.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server}
}

// Run blocks until ctx is canceled or the server fails on its own. A clean
// shutdown returns nil.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		serveErr <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received", "grace", shutdownGrace.String())
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return a.server.Shutdown(drainCtx)
}
