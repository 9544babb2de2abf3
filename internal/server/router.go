package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/asclepius/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the widget API router.
func NewRouter(svc *service.Appointment, log *slog.Logger) http.Handler {
	handler := NewHandler(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handler.startSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", handler.getSession)
			r.Post("/location", handler.updateLocation)
			r.Post("/select", handler.selectMarker)
			r.Post("/book", handler.book)
		})
	})

	return r
}
