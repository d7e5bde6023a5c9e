package main

import (
	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/config"
	"codeberg.org/stylize/server/internal/imagegen"
	"codeberg.org/stylize/server/internal/ratelimit"
	"codeberg.org/stylize/server/internal/transform"
	"codeberg.org/stylize/server/internal/usage"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// holds all dependencies and state for the API server
type Server struct {
	config   *config.Config
	services *Services
	router   *gin.Engine
}

// holds all external service clients (identity, storage, image generation)
type Services struct {
	Verifier  auth.Verifier
	Store     usage.Store
	Generator imagegen.Generator
	Transform *transform.Service
	Limiter   *ratelimit.Limiter

	// owned connections, closed on shutdown; either may be nil
	db    *pgxpool.Pool
	redis *redis.Client
}
