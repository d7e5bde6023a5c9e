package auth

import (
	"codeberg.org/stylize/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers the authentication diagnostic routes
func RegisterRoutes(router gin.IRouter, verifier auth.Verifier) {
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/test", auth.RequireAuth(verifier), TestHandler)
		authGroup.GET("/whoami", auth.OptionalAuth(verifier), WhoAmIHandler)
	}
}
