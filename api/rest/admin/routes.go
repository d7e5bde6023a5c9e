package admin

import (
	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/usage"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router gin.IRouter, store usage.Store, verifier auth.Verifier, isAdmin func(uid string) bool) {
	admin := router.Group("/admin")
	admin.Use(auth.RequireAuth(verifier), auth.RequireAdmin(isAdmin))

	admin.GET("/usage", ListUsage(store))
	admin.POST("/usage/:uid/reset", ResetUsage(store))
}
