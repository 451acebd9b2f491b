package handlers

import (
	"net/http"

	"github.com/clubstack/booking-api/internal/auth"
	"github.com/clubstack/booking-api/internal/config"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth    *auth.AuthHandler
	Member  *MemberHandler
	Club    *ClubHandler
	Event   *EventHandler
	Booking *BookingHandler
	APIKey  *APIKeyHandler
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, h Handlers) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(corsMiddleware(cfg.FrontendURL))
	}

	// Initialize Huma API
	config := huma.DefaultConfig("Club Booking API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/auth/discord/login", h.Auth.HandleLogin)
	r.Get("/auth/discord/callback", h.Auth.HandleCallback)

	protected := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
	}

	huma.Get(api, "/me", h.Member.HandleMe, protected)

	// Clubs and memberships
	huma.Post(api, "/clubs", h.Club.HandleCreateClub, protected)
	huma.Post(api, "/clubs/{id}/members", h.Club.HandleAddMember, protected)

	// Events and categories
	huma.Post(api, "/clubs/{id}/events", h.Event.HandleCreateEvent, protected)
	huma.Get(api, "/events/{id}", h.Event.HandleGetEvent, protected)
	huma.Post(api, "/events/{id}/categories", h.Event.HandleAddCategory, protected)
	huma.Post(api, "/events/{id}/deactivate", h.Event.HandleDeactivateEvent, protected)
	huma.Delete(api, "/events/{id}", h.Event.HandleDeleteEvent, protected)
	huma.Delete(api, "/categories/{id}", h.Event.HandleDeleteCategory, protected)

	// Bookings
	huma.Post(api, "/bookings", h.Booking.HandleCreateBooking, protected)
	huma.Post(api, "/bookings/checkin", h.Booking.HandleCheckIn, protected)
	huma.Get(api, "/bookings", h.Booking.HandleListBookings, protected)
	huma.Get(api, "/bookings/{id}", h.Booking.HandleGetBooking, protected)
	huma.Get(api, "/bookings/{id}/history", h.Booking.HandleBookingHistory, protected)
	huma.Delete(api, "/bookings/{id}", h.Booking.HandleCancelBooking, protected)

	// API keys
	huma.Post(api, "/api-keys", h.APIKey.HandleCreate, protected)
	huma.Get(api, "/api-keys", h.APIKey.HandleList, protected)
	huma.Delete(api, "/api-keys/{id}", h.APIKey.HandleDelete, protected)
}

func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-KEY")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
