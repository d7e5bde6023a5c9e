// Package ratelimit throttles request bursts per caller. It is independent of
// the transformation quota: a throttled request is never charged.
package ratelimit

import (
	"fmt"

	"codeberg.org/stylize/server/internal/errors"
	"codeberg.org/stylize/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

type Limiter struct {
	config   *Config
	instance *limiter.Limiter
}

// creates a limiter; a nil client keeps counters in process memory
func New(config *Config, client *redis.Client) (*Limiter, error) {
	if config == nil {
		config = DefaultConfig()
	}

	rate, err := config.rate()
	if err != nil {
		return nil, err
	}

	var store limiter.Store

	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix:   config.Prefix,
			MaxRetry: 3,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          config.Prefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
	}

	return &Limiter{config: config, instance: limiter.New(store, rate)}, nil
}

// returns a Gin middleware that throttles per authenticated user, falling
// back to the client IP for anonymous callers
func (l *Limiter) Middleware() gin.HandlerFunc {
	if !l.config.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return mgin.NewMiddleware(l.instance,
		mgin.WithKeyGetter(keyFor),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.FromContext(c.Request.Context()).Warn("rate limit reached",
				"key", keyFor(c),
				"path", c.Request.URL.Path,
			)
			errors.TooManyRequests(c, "Too many requests, please slow down")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// the limiter's own store failing must not block traffic
			logger.ErrorErr(err, "rate limiter store failed", "path", c.Request.URL.Path)
			c.Next()
		}),
	)
}

func keyFor(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}

	return "ip:" + c.ClientIP()
}
