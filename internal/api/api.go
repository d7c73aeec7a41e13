// Package api exposes the companion service over HTTP.
package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/pageza/smartfridge/internal/middleware"
	"github.com/pageza/smartfridge/internal/service"
)

// Deps are the collaborators the router needs. Drafts and RateLimiter are optional.
type Deps struct {
	AI          service.AIServiceInterface
	Drafts      service.DraftStore
	Submitter   *service.Submitter
	RateLimiter *middleware.RateLimiter
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter builds the gin engine with middleware and every route registered
func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestLogger(deps.Logger),
		middleware.CORS(deps.CORSOrigins),
	)
	SetupRoutes(router, deps)
	return router
}

// SetupRoutes registers all routes on router
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", NewHealthHandler(deps.AI).HealthCheck)

	ai := router.Group("/ai")
	if deps.RateLimiter != nil {
		ai.Use(deps.RateLimiter.Middleware())
	}
	{
		NewAIHandler(deps.AI, deps.Drafts, deps.Logger).RegisterRoutes(ai)
		if deps.Drafts != nil && deps.Submitter != nil {
			NewDraftHandler(deps.Drafts, deps.Submitter, deps.Logger).RegisterRoutes(ai)
		}
	}
}
