package users

import (
	"net/http"

	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/errors"
	"codeberg.org/stylize/server/internal/usage"
	"github.com/gin-gonic/gin"
)

// GetStats godoc
// @Summary Get the caller's usage statistics
// @Description Returns transformations used and remaining, the quota, the last reset and the ten most recent history entries. Creates a zeroed record on first access.
// @Tags users
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/stats [get]
// @Security BearerAuth
func GetStats(store usage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.GetIdentity(c)
		if !ok || identity.IsAnonymous() {
			errors.NoToken(c)
			return
		}

		stats, err := usage.GetStats(c.Request.Context(), store, identity.UID)
		if err != nil {
			if errors.Is(err, usage.ErrStorageUnavailable) {
				errors.StorageUnavailable(c, err)
				return
			}

			errors.InternalError(c, "Error getting user stats", err)
			return
		}

		c.JSON(http.StatusOK, StatsResponse{
			Success: true,
			User: UserInfo{
				UID:   identity.UID,
				Email: identity.Email,
				Name:  identity.Name,
			},
			Usage: stats,
		})
	}
}
