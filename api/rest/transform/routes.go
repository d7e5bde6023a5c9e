package transform

import (
	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/transform"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router gin.IRouter, svc *transform.Service, verifier auth.Verifier, limits UploadLimits, throttle gin.HandlerFunc) {
	router.GET("/styles", ListStyles)

	handlers := []gin.HandlerFunc{auth.RequireAuth(verifier)}
	if throttle != nil {
		handlers = append(handlers, throttle)
	}

	handlers = append(handlers, Transform(svc, limits))
	router.POST("/transform", handlers...)
}
