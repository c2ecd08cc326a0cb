package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carevoice/internal/archive"
	"carevoice/internal/auth"
	"carevoice/internal/config"
	"carevoice/internal/handlers"
	"carevoice/internal/security"
	"carevoice/internal/service"
	"carevoice/internal/speech"
	"carevoice/internal/store"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.Load()

	// Durable stores
	users := store.NewUserStore(cfg.DataPath)
	events := store.NewEventStore(cfg.DataPath)
	invitations := store.NewInvitationStore(cfg.DataPath)
	log.Printf("Stores initialized under %s (%d events in retention window)", cfg.DataPath, events.Len())

	// Event archive keeps what the retention window drops
	var eventArchive *archive.Archive
	if cfg.ArchiveType != "" && cfg.ArchiveType != "none" {
		arc, err := archive.Open(cfg.ArchiveType, archive.DialectConfig{
			Path: cfg.ArchivePath,
			URL:  cfg.ArchiveURL,
		})
		if err != nil {
			log.Printf("Warning: event archive disabled: %v", err)
		} else {
			eventArchive = arc
			defer eventArchive.Close()
			log.Printf("Event archive connected (type: %s)", cfg.ArchiveType)
		}
	}

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Speech engines, tried in order: platform narrator, then remote fetch.
	dispatcher := speech.NewDispatcher(
		speech.NewNarrator(cfg.SpeechCommand),
		speech.NewRemoteEngine(cfg.AudioCachePath, cfg.SpeechPlayer),
	)

	// Services
	accountService := service.NewAccountService(users, invitations)
	inviteService := service.NewInviteService(invitations, users, emailService)
	relayService := service.NewRelayService(events, accountService, dispatcher, eventArchive, emailService)

	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenDuration)
	limiter := security.NewRateLimiter(30, time.Minute)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
	}

	// Handlers
	middleware := handlers.NewMiddleware(tokens, limiter)
	authHandler := handlers.NewAuthHandler(accountService, emailService, tokens, oauthProviders, cfg.OAuthRedirectBaseURL)
	accountHandler := handlers.NewAccountHandler(accountService, inviteService)
	relayHandler := handlers.NewRelayHandler(relayService)

	// Routes
	mux := http.NewServeMux()

	// Account lifecycle
	mux.HandleFunc("POST /api/signup", middleware.RateLimit(authHandler.Signup))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/password/verify-answer", middleware.RateLimit(authHandler.VerifySecurityAnswer))
	mux.HandleFunc("POST /api/password/reset", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /api/security-questions", authHandler.SecurityQuestions)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Relay
	mux.HandleFunc("POST /api/trigger", middleware.RateLimit(middleware.OptionalAuth(relayHandler.Trigger)))
	mux.HandleFunc("GET /api/history", middleware.OptionalAuth(relayHandler.History))
	mux.HandleFunc("GET /api/history/archive", middleware.RequireAuth(relayHandler.ArchivedHistory))
	mux.HandleFunc("GET /api/buttons", relayHandler.Buttons)

	// Authenticated account endpoints
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(accountHandler.Profile))
	mux.HandleFunc("POST /api/theme", middleware.RequireAuth(accountHandler.SetTheme))
	mux.HandleFunc("GET /api/medicines", middleware.RequireAuth(accountHandler.Medicines))
	mux.HandleFunc("POST /api/medicines", middleware.RequireAuth(accountHandler.SetMedicines))
	mux.HandleFunc("GET /api/devices", middleware.RequireAuth(accountHandler.Devices))
	mux.HandleFunc("POST /api/devices", middleware.RequireAuth(accountHandler.RegisterDevice))
	mux.HandleFunc("POST /api/caretakers", middleware.RequireAuth(accountHandler.AddCaretaker))
	mux.HandleFunc("GET /api/accounts", middleware.RequireAuth(accountHandler.Accounts))
	mux.HandleFunc("POST /api/invitations", middleware.RequireAuth(accountHandler.Invite))
	mux.HandleFunc("POST /api/invitations/accept", middleware.RequireAuth(accountHandler.AcceptInvitation))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Hourly retention pass
	go runMaintenance(relayService, inviteService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// runMaintenance prunes expired events and invitations every hour.
func runMaintenance(relay *service.RelayService, invites *service.InviteService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if dropped := relay.PruneExpired(); dropped > 0 {
			log.Printf("Pruned %d events past the retention window", dropped)
		}
		if removed := invites.CleanupExpired(); removed > 0 {
			log.Printf("Removed %d expired invitations", removed)
		}
	}
}
