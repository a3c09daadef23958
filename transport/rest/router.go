package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/multigame-backend/internal/usecase"
)

const requestTimeout = 30 * time.Second

// NewRouter binds the game use case to HTTP routes. health backs /ping.
func NewRouter(logger *slog.Logger, games usecase.GameUseCase, health func(ctx context.Context) error) http.Handler {
	ping := NewPingHandler(health)
	handler := NewGameHandler(logger, games)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/ping", ping.PingHandler)

	r.Route("/types/{type}", func(r chi.Router) {
		r.Post("/players", handler.RegisterPlayer)
		r.Get("/colors", handler.AvailableColors)
		r.Get("/games/{gameID}", handler.LocateGame)
	})

	r.Route("/games/{gameID}", func(r chi.Router) {
		r.Get("/", handler.GetGame)
		r.Delete("/players/{seatID}", handler.UnregisterPlayer)
		r.Post("/moves", handler.DoMove)
		r.Get("/moves", handler.ListMoves)
		r.Post("/suggestions", handler.SuggestMove)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	log := logger.With("component", "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Debug("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(started),
				"requestID", middleware.GetReqID(r.Context()),
			)
		})
	}
}
