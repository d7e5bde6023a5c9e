package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/config"
	"codeberg.org/stylize/server/internal/imagegen"
	"codeberg.org/stylize/server/internal/logger"
	"codeberg.org/stylize/server/internal/ratelimit"
	"codeberg.org/stylize/server/internal/transform"
	"codeberg.org/stylize/server/internal/usage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// creates and configures all service clients
func InitializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	if cfg.RedisURL != "" {
		client, err := newRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}

		services.redis = client
	}

	store, err := newUsageStore(ctx, cfg, services)
	if err != nil {
		services.Close()
		return nil, err
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		services.Close()
		return nil, err
	}

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.Rate = cfg.RateLimit

	limiter, err := ratelimit.New(limiterConfig, services.redis)
	if err != nil {
		services.Close()
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	generator := imagegen.NewGeminiClient(imagegen.GeminiConfig{
		APIKey:  cfg.GoogleAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})

	services.Verifier = verifier
	services.Store = store
	services.Generator = generator
	services.Limiter = limiter
	services.Transform = transform.NewService(store, generator, cfg.TransformTimeout)

	logger.Info("services initialized",
		"auth_provider", cfg.AuthProvider,
		"usage_store", cfg.UsageStore,
		"max_transformations", store.Limit(),
		"gemini_model", generator.Model(),
		"rate_limit", limiterConfig.Rate,
		"rate_limit_store", ternary(services.redis != nil, "redis", "memory"),
	)

	return services, nil
}

// releases owned connections
func (s *Services) Close() {
	if s.redis != nil {
		s.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	if s.db != nil {
		s.db.Close()
	}
}

func newVerifier(ctx context.Context, cfg *config.Config) (auth.Verifier, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderJWT:
		verifier, err := auth.NewJWTVerifier(cfg.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to create jwt verifier: %w", err)
		}

		return verifier, nil
	default:
		verifier, err := auth.NewFirebaseVerifier(ctx, auth.FirebaseConfig{
			ProjectID:          cfg.FirebaseProjectID,
			CredentialsFile:    cfg.FirebaseCredentialsFile,
			ServiceAccountJSON: cfg.FirebaseServiceAccountJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create firebase verifier: %w", err)
		}

		return verifier, nil
	}
}

func newUsageStore(ctx context.Context, cfg *config.Config, services *Services) (usage.Store, error) {
	switch cfg.UsageStore {
	case config.UsageStoreMemory:
		logger.Warn("using in-memory usage store, quotas reset on restart")
		return usage.NewMemoryStore(cfg.MaxTransformations), nil

	case config.UsageStoreRedis:
		if services.redis == nil {
			return nil, fmt.Errorf("REDIS_URL is required for the redis usage store")
		}

		return usage.NewRedisStore(services.redis, cfg.MaxTransformations), nil

	default:
		db, err := newDatabasePool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}

		services.db = db

		store := usage.NewPostgresStore(db, cfg.MaxTransformations)
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate usage schema: %w", err)
		}

		return store, nil
	}
}

func newDatabasePool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// quota writes are short transactions; a small pool is plenty
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func newRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}

	return falseVal
}
