package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/solacejournal/solace-backend/internal/handlers"
	"github.com/solacejournal/solace-backend/internal/middleware"
	"github.com/solacejournal/solace-backend/internal/services"
)

func SetupRoutes(r *chi.Mux, tokens *services.TokenService) {
	// Public auth routes
	r.Post("/api/auth/register", handlers.Register)
	r.Post("/api/auth/login", handlers.Login)
	r.Post("/api/auth/forgot-password", handlers.ForgotPassword)
	r.Post("/api/auth/reset-password", handlers.ResetPassword)

	// AI adapter status (advisory, no auth required)
	r.Get("/api/ai/status", handlers.AIStatus)

	// Routes that require a valid bearer token
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(tokens))

		pr.Post("/api/auth/logout", handlers.Logout)
		pr.Get("/api/auth/me", handlers.Me)

		// Journaling routes
		pr.Post("/api/journal", handlers.CreateEntry)
		pr.Get("/api/journal", handlers.GetEntries)
		pr.Get("/api/journal/{id}", handlers.GetEntry)
	})
}
