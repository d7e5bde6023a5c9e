package main

import (
	"context"
	"fmt"

	"codeberg.org/stylize/server/internal/config"
	"codeberg.org/stylize/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	services, err := InitializeServices(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return newServerWithServices(cfg, services), nil
}

func newServerWithServices(cfg *config.Config, services *Services) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())

	server := &Server{
		config:   cfg,
		services: services,
		router:   router,
	}

	RegisterRoutes(router, server)

	return server
}

func (s *Server) Close() {
	s.services.Close()
}
