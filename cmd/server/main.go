package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/clubstack/booking-api/internal/auth"
	"github.com/clubstack/booking-api/internal/booking"
	"github.com/clubstack/booking-api/internal/config"
	"github.com/clubstack/booking-api/internal/database"
	"github.com/clubstack/booking-api/internal/handlers"
	"github.com/clubstack/booking-api/internal/notifier"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Notifier
	var bookingNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			bookingNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	lifecycle := booking.NewLifecycle(db, bookingNotifier)

	h := handlers.Handlers{
		Auth:    authHandler,
		Member:  handlers.NewMemberHandler(db, authHandler),
		Club:    handlers.NewClubHandler(db, authHandler),
		Event:   handlers.NewEventHandler(db, lifecycle, authHandler),
		Booking: handlers.NewBookingHandler(lifecycle, authHandler),
		APIKey:  handlers.NewAPIKeyHandler(db, authHandler),
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, h)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
