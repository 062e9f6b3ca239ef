package container

import (
	"fmt"

	"github.com/flowshift/quoter/cmd/quoter/repository"
	"github.com/flowshift/quoter/cmd/quoter/service"
	"github.com/flowshift/quoter/common/aggregation"
	"github.com/flowshift/quoter/common/bootstrap"
	"github.com/flowshift/quoter/common/config"
	"github.com/flowshift/quoter/common/ingest"
	"github.com/flowshift/quoter/common/pricing"
	"github.com/flowshift/quoter/common/ratelimit"
	"github.com/flowshift/quoter/common/session"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Stores
	Sessions session.Store
	Quotes   service.QuoteStore

	// Services
	Calculator     *pricing.Calculator
	Processor      *ingest.Processor
	SessionService *service.SessionService

	// Rate limiting, nil when disabled
	RateLimiter  ratelimit.Checker
	GlobalLimit  ratelimit.GlobalConfig
	SessionTiers map[ratelimit.UploadTier]ratelimit.TierConfig
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config
	log := components.Logger

	sessions, err := newSessionStore(components)
	if err != nil {
		return nil, err
	}
	components.AddCleanup(sessions.Close)

	// Quotes live in Postgres when the database is connected
	var quotes service.QuoteStore
	if components.DB != nil {
		quotes = repository.NewQuoteRepository(components.DB)
	} else {
		log.Warn("database disabled, quotes are kept in memory")
		quotes = repository.NewMemoryQuoteRepository()
	}

	tables, err := pricing.LoadOverrides(cfg.Pricing.OverridesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing overrides: %w", err)
	}
	calculator, err := pricing.NewCalculator(tables)
	if err != nil {
		return nil, fmt.Errorf("failed to create calculator: %w", err)
	}

	guard := ingest.NewGuard(LimitsFromConfig(cfg))
	processor := ingest.NewProcessor(guard, cfg.Pricing.PricePerNode, cfg.Limits.IngestConcurrency)

	sessionService := service.NewSessionService(
		sessions,
		processor,
		calculator,
		quotes,
		RulesFromConfig(cfg),
		cfg.Limits.MaxFilesPerBatch,
		components.Telemetry,
		log,
	)

	c := &Container{
		Components:     components,
		Sessions:       sessions,
		Quotes:         quotes,
		Calculator:     calculator,
		Processor:      processor,
		SessionService: sessionService,
	}

	if cfg.RateLimit.Enabled && components.Redis != nil {
		c.RateLimiter = ratelimit.NewRateLimiter(components.Redis.GetUnderlying(), log)
		c.GlobalLimit = ratelimit.GlobalConfig{
			Limit:         cfg.RateLimit.GlobalLimit,
			WindowSeconds: cfg.RateLimit.WindowSeconds,
		}
		c.SessionTiers = ratelimit.TierConfigs(cfg.RateLimit.SessionLimit, cfg.RateLimit.WindowSeconds)
		log.Info("upload rate limiting enabled",
			"global_limit", cfg.RateLimit.GlobalLimit,
			"session_limit", cfg.RateLimit.SessionLimit,
			"window_seconds", cfg.RateLimit.WindowSeconds,
		)
	}

	return c, nil
}

func newSessionStore(components *bootstrap.Components) (session.Store, error) {
	cfg := components.Config
	switch cfg.Session.Store {
	case "redis":
		if components.Redis == nil {
			return nil, fmt.Errorf("session store is redis but redis is not connected")
		}
		return session.NewRedisStore(components.Redis, cfg.Session.TTL, components.Logger), nil
	default:
		return session.NewMemoryStore(cfg.Session.TTL, components.Logger), nil
	}
}

// LimitsFromConfig maps configured limits onto the ingestion guard
func LimitsFromConfig(cfg *config.Config) ingest.Limits {
	return ingest.Limits{
		MaxFileSize:  cfg.Limits.MaxFileSizeBytes,
		MaxNodeCount: cfg.Limits.MaxNodeCount,
		MaxDepth:     cfg.Limits.MaxTraversalDepth,
	}
}

// RulesFromConfig maps configured pricing constants onto aggregation rules
func RulesFromConfig(cfg *config.Config) aggregation.Rules {
	return aggregation.Rules{
		PricePerNode: cfg.Pricing.PricePerNode,
		MinimumPrice: cfg.Pricing.MinimumPrice,
		Currency:     cfg.Pricing.Currency,
	}
}
