package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/mwicker/ledgerpass/internal/auth"
	"github.com/mwicker/ledgerpass/internal/handlers"
	"github.com/mwicker/ledgerpass/internal/middleware"
)

// RegisterRoutes registers the API surface under /api/v1.
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	accountHandler *handlers.AccountHandler,
	authn auth.Authenticator,
	rateLimit middleware.RateLimitConfig,
) {
	router.Route("/api/v1/users", func(r chi.Router) {
		// Public routes, rate limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(rateLimit))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Any authenticated account
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(authn))

			r.Post("/logout", authHandler.Logout)
			r.Get("/{id}", accountHandler.GetAccount)
			r.Put("/{id}", accountHandler.UpdateAccount)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin())
				r.Get("/", accountHandler.ListAccounts)
				r.Delete("/{id}", accountHandler.DeleteAccount)
				r.Put("/{id}/role", accountHandler.ChangeRole)
			})
		})
	})
}
