// Package server wires the development backend together and runs it until
// the process is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/logging"
	"github.com/dmitrijs2005/artefacto/internal/server/catalog"
	"github.com/dmitrijs2005/artefacto/internal/server/config"
	"github.com/dmitrijs2005/artefacto/internal/server/httpapi"
	"github.com/dmitrijs2005/artefacto/internal/server/users"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	server *http.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogLevel, c.LogFormat, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	secret, err := c.Secret()
	if err != nil {
		return nil, fmt.Errorf("secret init error: %w", err)
	}

	us := users.NewService(users.NewMemoryRepository(), secret, c.TokenTTL)
	if err := us.SeedAdmin(ctx, c.AdminEmail, c.AdminPassword); err != nil {
		return nil, fmt.Errorf("admin seed error: %w", err)
	}

	store := catalog.NewStore()
	if c.SeedCatalog {
		store.Seed(ctx)
	}

	h := httpapi.NewHandler(us, store, secret, c.ResponseShape, logger)
	router := httpapi.NewRouter(h, httpapi.Options{
		AllowedOrigins:    c.AllowedOrigins,
		AuthRatePerMinute: c.AuthRatePerMinute,
	})

	return &App{
		config: c,
		logger: logger,
		server: &http.Server{
			Addr:              c.EndpointAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a signal arrives, then shuts down
// gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting server...", "addr", app.config.EndpointAddr, "response_shape", app.config.ResponseShape)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			app.logger.Error(ctx, "server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
