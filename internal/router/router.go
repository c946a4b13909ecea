package router

import (
	"github.com/Rakesh4440/fixify-plus/internal/handler"
	"github.com/Rakesh4440/fixify-plus/internal/middleware"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/Rakesh4440/fixify-plus/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
)

// Handlers groups the HTTP handlers wired into the router.
type Handlers struct {
	Auth    *handler.AuthHandler
	Listing *handler.ListingHandler
	Review  *handler.ReviewHandler
	AI      *handler.AIHandler
	Health  *handler.HealthHandler
}

// New assembles the service router: request logging, CORS and latency
// metrics around all routes, JWT auth around the mutating ones.
func New(h Handlers, jwtSecret, corsOrigin string, m *metrics.Manager, log *logger.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestLogger(log))
	mux.Use(middleware.CORS(corsOrigin))
	mux.Use(middleware.RequestLatency(m))

	SetupAuthRoutes(mux, h.Auth)
	SetupListingRoutes(mux, h.Listing, h.Review, h.AI, jwtSecret, log)
	mux.Get("/api/health", h.Health.Check)

	return mux
}

// SetupAuthRoutes configures the public registration and login routes.
func SetupAuthRoutes(mux *chi.Mux, h *handler.AuthHandler) {
	mux.Post("/api/auth/register", h.Register)
	mux.Post("/api/auth/login", h.Login)
}

// SetupListingRoutes configures listing, review, endorsement and AI routes.
// Reads are public; everything that mutates sits behind JWT auth, and the
// moderation verify additionally requires the admin or community role.
func SetupListingRoutes(mux *chi.Mux, listings *handler.ListingHandler, reviews *handler.ReviewHandler, ai *handler.AIHandler, jwtSecret string, log *logger.Logger) {
	// Public read routes
	mux.Get("/api/listings", listings.Search)
	mux.Get("/api/listings/{id}", listings.GetByID)
	mux.Get("/api/listings/{id}/reviews/summary", ai.SummarizeReviews)

	// Protected routes
	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, log))

		r.Post("/api/listings", listings.Create)
		r.Put("/api/listings/{id}", listings.Update)
		r.Delete("/api/listings/{id}", listings.Delete)

		r.Post("/api/listings/{id}/reviews", reviews.UpsertReview)
		r.Post("/api/listings/{id}/endorse", reviews.ToggleEndorsement)

		r.Post("/api/ai/description", ai.GenerateDescription)

		// Moderation: the handlers re-check the role in the use case as well.
		r.With(middleware.RequireRole("admin", "community")).
			Put("/api/listings/{id}/verify", reviews.CommunityVerify)
	})
}
