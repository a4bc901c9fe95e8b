package container

import (
	"context"

	"storefront-api/internal/cart"
	"storefront-api/internal/catalog"
	"storefront-api/internal/config"
	"storefront-api/internal/notice"
	"storefront-api/internal/repository"
	"storefront-api/internal/service"
	"storefront-api/internal/service/auth"
	"storefront-api/internal/session"
	"storefront-api/internal/supabase"
	"storefront-api/pkg/database"
	"storefront-api/pkg/logger"
	"storefront-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client
	Supabase    *supabase.Client
	Sessions    *session.Manager
	Carts       *cart.Registry
	Catalog     *catalog.Service
	Tokens      service.TokenService
	Notices     notice.Sink
}

// New creates a new dependency injection container. The database and cache
// are both optional; without them the catalog is served from the built-in
// listing and carts stay in memory only.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	var db *database.PostgresDB
	if cfg.DatabaseURL != "" {
		pg, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		db = pg
		log.Info("Database connection pool initialized")
	} else {
		log.Warn("DATABASE_URL not configured, serving the built-in catalog")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	var productRepo repository.ProductRepository
	var cartRepo repository.CartRepository
	var profileRepo repository.ProfileRepository
	if db != nil {
		productRepo = repository.NewProductRepository(db)
		cartRepo = repository.NewCartRepository(db)
		profileRepo = repository.NewProfileRepository(db)
	} else {
		cartRepo = repository.NewMemoryCartRepository(catalog.Lookup)
		profileRepo = repository.NewEmptyProfileRepository()
	}

	notices := notice.NewLogSink(log)

	supabaseClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, log)
	sessions := session.NewManager(supabaseClient, profileRepo, log)

	registry := cart.NewRegistry(cartRepo, notices, log)
	registry.Watch(supabaseClient.Subscribe())

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,
		Supabase:    supabaseClient,
		Sessions:    sessions,
		Carts:       registry,
		Catalog:     catalog.NewService(productRepo, redisClient, log),
		Tokens:      auth.NewService(cfg.SupabaseJWTSecret, cfg.GoogleClientID, log),
		Notices:     notices,
	}, nil
}

// Close tears down the session manager, cart registry and auth event stream.
func (c *Container) Close() {
	c.Sessions.Close()
	c.Carts.Close()
	c.Supabase.Close()
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetTokenService returns the token validation service
func (c *Container) GetTokenService() service.TokenService {
	return c.Tokens
}

// HasRedis returns true if the Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// HasDatabase returns true if the database pool is available
func (c *Container) HasDatabase() bool {
	return c.DB != nil
}
