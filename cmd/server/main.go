package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/solacejournal/solace-backend/internal/config"
	"github.com/solacejournal/solace-backend/internal/database"
	"github.com/solacejournal/solace-backend/internal/handlers"
	"github.com/solacejournal/solace-backend/internal/middleware"
	"github.com/solacejournal/solace-backend/internal/routes"
	"github.com/solacejournal/solace-backend/internal/services"
	"github.com/solacejournal/solace-backend/internal/services/ai"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	if cfg.JWTSecret == "your-secret-key-change-in-production" {
		log.Println("⚠️  WARNING: JWT_SECRET is using the default value.")
		log.Println("   To generate a secret, run: openssl rand -base64 32")
		log.Println("   Set it in your environment: JWT_SECRET=<generated-secret>")
	}

	// Log connection attempt (without showing password)
	log.Printf("Connecting to MongoDB...")
	if cfg.MongoURI != "" {
		maskedURI := cfg.MongoURI
		if strings.Contains(maskedURI, "@") {
			parts := strings.Split(maskedURI, "@")
			if len(parts) > 0 && strings.Contains(parts[0], ":") {
				userPass := strings.Split(parts[0], ":")
				if len(userPass) >= 3 {
					maskedURI = strings.Replace(maskedURI, userPass[2], "***", 1)
				}
			}
		}
		log.Printf("MongoDB URI: %s", maskedURI)
	}

	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	if err := database.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Connect to Redis (token denylist + rate limiting)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// AI adapters. Either may be unconfigured; entries still get saved
	// with fallback values.
	classifier := ai.NewClassifier(ai.ClassifierConfig{
		APIKey:   cfg.HFAPIKey,
		Endpoint: cfg.HFEndpoint,
	})
	if classifier.Enabled() {
		log.Println("✅ Emotion classifier configured")
	} else {
		log.Println("Warning: HF_API_KEY not set. Entries will be labeled neutral.")
	}

	suggester := ai.NewSuggester(ai.SuggesterConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
	})
	if suggester.Enabled() {
		log.Println("✅ Coping suggestion generator configured")
	} else {
		log.Println("Warning: OPENAI_API_KEY not set. Entries will carry a fallback suggestion.")
	}

	// Services
	userService := services.NewUserService(database.DB)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry, database.RedisClient)
	mailer := services.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	if mailer.Enabled() {
		log.Println("✅ SMTP mailer configured")
	} else {
		log.Println("Warning: EMAIL_HOST not set. Password reset links will be logged instead of emailed.")
	}

	entryStore := services.NewMongoEntryStore(database.DB)
	journalService := services.NewJournalService(entryStore, classifier, suggester)

	handlers.InitAuthHandlers(cfg, userService, tokenService, mailer)
	handlers.InitJournalHandlers(journalService, classifier.Enabled(), suggester.Enabled())

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r, tokenService)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/register")
	log.Println("  POST /api/auth/login")
	log.Println("  POST /api/auth/logout")
	log.Println("  GET  /api/auth/me")
	log.Println("  POST /api/auth/forgot-password")
	log.Println("  POST /api/auth/reset-password")
	log.Println("  POST /api/journal")
	log.Println("  GET  /api/journal")
	log.Println("  GET  /api/journal/{id}")
	log.Println("  GET  /api/ai/status")

	log.Printf("🚀 Solace backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
