package api

import (
	"net/http"

	"github.com/dlane/event-checkin/internal/api/handlers"
	"github.com/dlane/event-checkin/internal/api/middleware"
	"github.com/dlane/event-checkin/internal/service"
	"github.com/dlane/event-checkin/internal/ws"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *ws.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CSRF)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(services.Event)
	manageHandler := handlers.NewManageHandler(services.Event, services.Session)
	liveHandler := handlers.NewLiveHandler(hub, services.Session)

	r.Route("/api/events", func(r chi.Router) {
		r.Post("/", eventHandler.Create)

		r.Route("/{eventID}", func(r chi.Router) {
			// Public attendee-facing routes
			r.Get("/attendees", eventHandler.ListAttendees)
			r.Post("/signin", eventHandler.SignIn)

			// Organizer routes (password or session)
			r.Post("/attendees", manageHandler.AddAttendee)
			r.Post("/details", manageHandler.Details)
			r.Post("/analytics", manageHandler.Analytics)
			r.Post("/export", manageHandler.Export)
			r.Post("/logout", manageHandler.Logout)

			// Live check-in feed (session only)
			r.Get("/live", liveHandler.Serve)
		})
	})

	return r
}
