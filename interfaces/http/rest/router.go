package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"roadmap-backend/application/commands"
	querybus "roadmap-backend/application/queries/bus"
	"roadmap-backend/infrastructure/config"
	"roadmap-backend/interfaces/http/rest/handlers"
	"roadmap-backend/interfaces/http/rest/middleware"
	"roadmap-backend/pkg/auth"
	appErrors "roadmap-backend/pkg/errors"
)

// Dependencies carries everything the router needs from the container
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	QueryBus       *querybus.QueryBus
	CreateRoadmap  *commands.CreateRoadmapHandler
	UpdateRoadmap  *commands.UpdateRoadmapHandler
	DeleteRoadmap  *commands.DeleteRoadmapHandler
	EditContent    *commands.EditContentHandler
	PublishRoadmap *commands.PublishRoadmapHandler
	ChangeProgress *commands.ChangeProgressHandler
	AccessGrants   *commands.AccessHandler
	Star           *commands.StarHandler
	RegisterUser   *commands.RegisterUserHandler
	JWTValidator   *auth.JWTValidator
	RateLimiter    *auth.TokenBucketLimiter
}

// Router creates and configures the HTTP router
type Router struct {
	deps Dependencies
}

// NewRouter creates a new router instance
func NewRouter(deps Dependencies) *Router {
	return &Router{deps: deps}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.deps.Logger))

	if rt.deps.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	errorHandler := appErrors.NewErrorHandler(rt.deps.Logger, rt.deps.Config.IsDevelopment())

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		// Registration happens before the caller holds a token
		r.Group(func(r chi.Router) {
			userHandler := handlers.NewUserHandler(rt.deps.RegisterUser, errorHandler, rt.deps.Logger)
			r.Post("/users", userHandler.RegisterUser)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.deps.JWTValidator, rt.deps.RateLimiter, rt.deps.Logger))

			r.Route("/roadmaps", func(r chi.Router) {
				roadmapHandler := handlers.NewRoadmapHandler(
					rt.deps.CreateRoadmap,
					rt.deps.UpdateRoadmap,
					rt.deps.DeleteRoadmap,
					rt.deps.EditContent,
					rt.deps.PublishRoadmap,
					rt.deps.QueryBus,
					errorHandler,
					rt.deps.Logger,
				)
				r.Post("/", roadmapHandler.CreateRoadmap)
				r.Get("/", roadmapHandler.ListRoadmaps)
				r.Get("/{roadmapID}", roadmapHandler.GetRoadmap)
				r.Put("/{roadmapID}", roadmapHandler.UpdateRoadmap)
				r.Delete("/{roadmapID}", roadmapHandler.DeleteRoadmap)
				r.Put("/{roadmapID}/content", roadmapHandler.EditContent)
				r.Post("/{roadmapID}/publish", roadmapHandler.PublishRoadmap)

				accessHandler := handlers.NewAccessHandler(rt.deps.AccessGrants, rt.deps.Star, errorHandler, rt.deps.Logger)
				r.Post("/{roadmapID}/access", accessHandler.GrantAccess)
				r.Delete("/{roadmapID}/access/{userID}", accessHandler.RevokeAccess)
				r.Post("/{roadmapID}/star", accessHandler.StarRoadmap)
				r.Delete("/{roadmapID}/star", accessHandler.UnstarRoadmap)

				progressHandler := handlers.NewProgressHandler(rt.deps.ChangeProgress, rt.deps.QueryBus, errorHandler, rt.deps.Logger)
				r.Get("/{roadmapID}/progress", progressHandler.GetProgress)
				r.Put("/{roadmapID}/progress/{topicID}", progressHandler.ChangeStatus)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
