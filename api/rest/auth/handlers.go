package auth

import (
	"net/http"

	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/errors"
	"github.com/gin-gonic/gin"
)

// TestHandler godoc
// @Summary Verify a token
// @Description Echoes the identity decoded from the bearer token
// @Tags auth
// @Produce json
// @Success 200 {object} TestResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/test [get]
// @Security BearerAuth
func TestHandler(c *gin.Context) {
	identity, ok := auth.GetIdentity(c)
	if !ok || identity.IsAnonymous() {
		errors.NoToken(c)
		return
	}

	c.JSON(http.StatusOK, TestResponse{
		Success: true,
		Message: "Authentication successful",
		User:    identity,
	})
}

// WhoAmIHandler godoc
// @Summary Describe the caller
// @Description Returns the caller's identity when a valid token is supplied; never rejects
// @Tags auth
// @Produce json
// @Success 200 {object} WhoAmIResponse
// @Router /auth/whoami [get]
func WhoAmIHandler(c *gin.Context) {
	identity, ok := auth.GetIdentity(c)
	if !ok || identity.IsAnonymous() {
		c.JSON(http.StatusOK, WhoAmIResponse{Success: true, Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, WhoAmIResponse{
		Success:       true,
		Authenticated: true,
		User:          identity,
	})
}
