package users

import (
	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/usage"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router gin.IRouter, store usage.Store, verifier auth.Verifier) {
	users := router.Group("/user")
	users.Use(auth.RequireAuth(verifier)) // all user routes require authentication

	users.GET("/stats", GetStats(store))
}
