package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scrawlhq/scrawl/internal/infrastructure/configs"
	"github.com/scrawlhq/scrawl/internal/infrastructure/logging"
	"github.com/scrawlhq/scrawl/internal/infrastructure/ratelimiter"
	healthHandler "github.com/scrawlhq/scrawl/internal/presentation/handler/health"
	leaderboardHandler "github.com/scrawlhq/scrawl/internal/presentation/handler/leaderboard"
	roomsHandler "github.com/scrawlhq/scrawl/internal/presentation/handler/rooms"
)

type Application struct {
	config             configs.Config
	roomsHandler       roomsHandler.Handler
	leaderboardHandler leaderboardHandler.Handler
	healthHandler      healthHandler.Handler
	logger             logging.Logger
	ratelimiter        ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	roomsHandler roomsHandler.Handler,
	leaderboardHandler leaderboardHandler.Handler,
	healthHandler healthHandler.Handler,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:             config,
		roomsHandler:       roomsHandler,
		leaderboardHandler: leaderboardHandler,
		healthHandler:      healthHandler,
		logger:             logger,
		ratelimiter:        ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)
	r.Use(app.loggerMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", app.roomsHandler.CreateRoomHandler)
			r.Get("/{code}", app.roomsHandler.GetRoomHandler)
			r.Get("/{code}/join", app.roomsHandler.JoinRoomHandler)
		})

		r.Get("/leaderboard", app.leaderboardHandler.GetLeaderboardHandler)

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
