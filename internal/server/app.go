package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/smartfridge/config"
	"github.com/pageza/smartfridge/internal/api"
	"github.com/pageza/smartfridge/internal/backend"
	"github.com/pageza/smartfridge/internal/database"
	"github.com/pageza/smartfridge/internal/llm"
	"github.com/pageza/smartfridge/internal/middleware"
	"github.com/pageza/smartfridge/internal/prompt"
	"github.com/pageza/smartfridge/internal/service"
)

// App holds every long-lived component of the companion service
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Providers *llm.Registry
	Prompts   *prompt.Store
	AI        *service.AIService
	Drafts    service.DraftStore
	Backend   *backend.Client
	Submitter *service.Submitter

	db          *gorm.DB
	redis       *redis.Client
	rateLimiter *middleware.RateLimiter
}

// NewProviders registers every provider the configuration can build and
// selects cfg.Provider as the default.
func NewProviders(cfg config.LLMConfig) (*llm.Registry, error) {
	reg := llm.NewRegistry(llm.NewOllama(cfg.Ollama.URL, cfg.Ollama.Model))
	if cfg.OpenAI.APIKey != "" || cfg.Provider == config.ProviderOpenAI {
		reg.Register(llm.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.URL, cfg.OpenAI.Model))
	}
	if cfg.Gemini.APIKey != "" || cfg.Provider == config.ProviderGemini {
		reg.Register(llm.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model))
	}
	if err := reg.SetDefault(cfg.Provider); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewApp builds the application from cfg. Redis and the audit database are
// optional: when Redis is unreachable drafts are kept in memory and rate
// limiting is off.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	providers, err := NewProviders(cfg.LLM)
	if err != nil {
		return nil, err
	}
	app.Providers = providers
	provider, err := providers.Default()
	if err != nil {
		return nil, err
	}

	app.Prompts, err = prompt.NewStore(cfg.Prompts.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	app.db, err = database.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if app.db != nil {
		if err := database.RunMigrations(app.db); err != nil {
			_ = database.Close(app.db)
			return nil, err
		}
	}

	app.AI = service.NewAIService(provider, app.Prompts, service.NewAuditLog(app.db, logger), logger, service.AIOptions{
		MaxTokens:      cfg.LLM.MaxTokens,
		FuzzyThreshold: cfg.LLM.FuzzyThreshold,
	})

	app.Drafts = service.NewMemoryDraftStore(cfg.Redis.DraftTTL)
	if cfg.Redis.Enabled() {
		client, err := database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, keeping drafts in memory without rate limiting", slog.String("error", err.Error()))
		} else {
			app.redis = client
			app.Drafts = service.NewRedisDraftStore(client, cfg.Redis.DraftTTL)
			if cfg.Redis.RateLimit > 0 {
				app.rateLimiter = middleware.NewAIRateLimiter(client, cfg.Redis.RateLimit, cfg.Redis.RateWindow, logger)
			}
		}
	}

	app.Backend = backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	app.Submitter = service.NewSubmitter(app.Backend, logger)

	logger.Info("Application initialized",
		slog.String("provider", provider.Name()),
		slog.String("model", provider.Model()),
		slog.Bool("audit_log", app.db != nil),
		slog.Bool("redis", app.redis != nil),
		slog.String("backend", app.Backend.BaseURL()),
	)
	return app, nil
}

// Router builds the HTTP handler for the app
func (a *App) Router() *gin.Engine {
	return api.NewRouter(api.Deps{
		AI:          a.AI,
		Drafts:      a.Drafts,
		Submitter:   a.Submitter,
		RateLimiter: a.rateLimiter,
		CORSOrigins: a.Config.Server.CORSOrigins,
		Logger:      a.Logger,
	})
}

// Serve runs the HTTP server and the prompt watcher until ctx is done
func (a *App) Serve(ctx context.Context) error {
	srv := New(a.Config.Server.Address(), a.Router(), a.Logger, a.Config.Server.ShutdownTimeout)
	return srv.Run(ctx, a.Prompts.Watch)
}

// Close releases database and Redis connections
func (a *App) Close() error {
	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if err := database.Close(a.db); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
