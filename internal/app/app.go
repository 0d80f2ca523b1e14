package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"log/slog"
	"net/http"
	"sessionstore/internal/config"
	"sessionstore/internal/http-server/handlers/health"
	deletee "sessionstore/internal/http-server/handlers/session/delete"
	"sessionstore/internal/http-server/handlers/session/deleteMany"
	"sessionstore/internal/http-server/handlers/session/findByShop"
	"sessionstore/internal/http-server/handlers/session/load"
	"sessionstore/internal/http-server/handlers/session/save"
	"sessionstore/internal/http-server/middleware/authorization"
	"sessionstore/internal/http-server/middleware/logger"
	jwtlib "sessionstore/internal/lib/jwt"
	"sessionstore/internal/lib/logger/sl"
	"sessionstore/internal/storage/sql"
	"time"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	log        *slog.Logger
	storage    *sql.Storage
	httpServer *http.Server
}

func New(log *slog.Logger, cfg *config.Config) *App {
	storage := sql.New(cfg.Storage.Driver, cfg.Storage.ConnString, sql.Options{
		TableName: cfg.Storage.TableName,
		Port:      cfg.Storage.Port,
	})

	tokenManager := jwtlib.New(time.Hour, cfg.Secret)

	return &App{
		log:     log,
		storage: storage,
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      NewRouter(log, storage, tokenManager),
			ReadTimeout:  cfg.HTTPServer.Timeout,
			WriteTimeout: cfg.HTTPServer.Timeout,
			IdleTimeout:  cfg.HTTPServer.IdleTimeout,
		},
	}
}

// NewRouter mounts the session routes. Session ids contain dots, so
// middleware.URLFormat must not be used here.
func NewRouter(log *slog.Logger, storage *sql.Storage, tokenValidator authorization.TokenValidator) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", health.New(log, storage))

	router.Group(func(r chi.Router) {
		r.Use(authorization.New(log, tokenValidator))

		r.Put("/sessions", save.New(log, storage))
		r.Post("/sessions/delete", deleteMany.New(log, storage))
		r.Get("/sessions/{id}", load.New(log, storage))
		r.Delete("/sessions/{id}", deletee.New(log, storage))
		r.Get("/shops/{shop}/sessions", findByShop.New(log, storage))
		r.Get("/shops/{shop}/sessions/offline", load.NewByShop(log, storage))
		r.Get("/shops/{shop}/users/{userID}/session", load.NewByShop(log, storage))
	})

	return router
}

func (a *App) MustRun() {
	if err := a.run(); err != nil {
		panic(err)
	}
}

func (a *App) run() error {
	const op = "app.Run"

	log := a.log.With(
		slog.String("op", op),
	)

	// the server starts before the table is ready; /healthz reports progress
	go func() {
		if err := a.storage.Ready(context.Background()); err != nil {
			log.Error("sessions storage is not available", sl.Err(err))
			return
		}
		log.Info("sessions storage is ready", slog.String("table", a.storage.Options().TableName))
	}()

	log.Info("http server is running", slog.String("addr", a.httpServer.Addr))

	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop() {
	const op = "app.Stop"

	log := a.log.With(slog.String("op", op))

	log.Info("stopping http server", slog.String("addr", a.httpServer.Addr))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown http server", sl.Err(err))
	}

	if err := a.storage.Disconnect(shutdownCtx); err != nil {
		log.Error("failed to disconnect sessions storage", sl.Err(err))
		return
	}

	log.Info("sessions storage disconnected")
}
