package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk/internal/auth"
	"github.com/prepdesk/prepdesk/internal/auth/jwt"
	"github.com/prepdesk/prepdesk/internal/config"
	"github.com/prepdesk/prepdesk/internal/logging"
	"github.com/prepdesk/prepdesk/internal/question"
	"github.com/prepdesk/prepdesk/internal/quiz"
	"github.com/prepdesk/prepdesk/internal/score"
	"github.com/prepdesk/prepdesk/internal/server"
	"github.com/prepdesk/prepdesk/internal/storage"
)

// Application aggregates shared infrastructure (storage, HTTP server)
// and background workers.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	http     *http.Server
	registry *quiz.Registry

	bgCancels []context.CancelFunc
}

// New bootstraps config, logger, the JSON stores and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	files, err := storage.New(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	questionStore := question.NewStore(files)
	userStore := auth.NewUserStore(files)

	authSvc := auth.NewService(userStore, auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			Secret: []byte(cfg.Security.JWTSecret),
			TTL:    cfg.Security.TokenTTL,
			Issuer: cfg.Name,
		},
		AdminPassword: cfg.Security.AdminPassword,
	}, logger)

	feed := score.NewFeed(logger)
	ledger := score.NewLedger(files, feed)

	registry := quiz.NewRegistry(quiz.RegistryOptions{
		Grace:         cfg.Quiz.SessionGrace,
		SweepInterval: cfg.Quiz.SweepInterval,
	}, logger)
	quizSvc := quiz.NewService(questionStore, registry, ledger, logger)

	apiServer := server.NewHTTPServer(cfg, logger, authSvc, server.Handlers{
		Auth:        auth.NewHTTPHandlers(authSvc, logger),
		Quiz:        quiz.NewHTTPHandlers(quizSvc, logger),
		Admin:       question.NewHTTPHandlers(questionStore, logger),
		Leaderboard: score.NewHTTPHandler(ledger, logger),
		Feed:        feed.HandleWebSocket,
	})

	return &Application{
		cfg:       cfg,
		logger:    logger,
		http:      apiServer,
		registry:  registry,
		bgCancels: make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancels = append(a.bgCancels, cancel)
	go func() {
		if err := a.registry.Run(bgCtx); err != nil && err != context.Canceled {
			a.logger.Warn().Err(err).Msg("session sweeper stopped")
		}
	}()
}
