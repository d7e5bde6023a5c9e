package main

import (
	"net/http"
	"strings"
	"time"

	"codeberg.org/stylize/server/api/rest/admin"
	"codeberg.org/stylize/server/api/rest/auth"
	"codeberg.org/stylize/server/api/rest/health"
	"codeberg.org/stylize/server/api/rest/transform"
	"codeberg.org/stylize/server/api/rest/users"
	_ "codeberg.org/stylize/server/docs"
	"codeberg.org/stylize/server/internal/config"
	"codeberg.org/stylize/server/internal/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config))

	services := server.services

	router.GET("/health", health.Handler(services.Store))
	router.GET("/ping", health.PingHandler)
	router.GET("/swagger/doc.json", SwaggerHandler)

	transform.RegisterRoutes(router, services.Transform, services.Verifier, transform.UploadLimits{
		MaxBytes: server.config.MaxUploadBytes,
		Dir:      server.config.UploadDir,
	}, services.Limiter.Middleware())

	users.RegisterRoutes(router, services.Store, services.Verifier)
	auth.RegisterRoutes(router, services.Verifier)
	admin.RegisterRoutes(router, services.Store, services.Verifier, server.config.IsAdmin)
}

// allows the configured frontend in production and any origin otherwise
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Usage-Stats", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.IsProduction() {
		allowed := strings.TrimRight(cfg.FrontendURL, "/")
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return allowed != "" && origin == allowed
		}
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}

	return cors.New(corsConfig)
}

// serves the registered OpenAPI document
func SwaggerHandler(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		errors.InternalError(c, "failed to read api docs", err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}
