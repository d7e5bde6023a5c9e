package admin

import (
	"net/http"
	"strings"

	"codeberg.org/stylize/server/internal/errors"
	"codeberg.org/stylize/server/internal/logger"
	"codeberg.org/stylize/server/internal/usage"
	"github.com/gin-gonic/gin"
)

// ListUsage godoc
// @Summary List usage for every user (admin)
// @Description Admin-only bulk read of all usage records, without history
// @Tags admin
// @Produce json
// @Success 200 {object} UsageListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/usage [get]
// @Security BearerAuth
func ListUsage(store usage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := store.GetAllUsage(c.Request.Context())
		if err != nil {
			errors.StorageUnavailable(c, err)
			return
		}

		c.JSON(http.StatusOK, UsageListResponse{
			Success: true,
			Count:   len(all),
			Users:   all,
		})
	}
}

// ResetUsage godoc
// @Summary Reset a user's quota (admin)
// @Description Admin-only; sets transformations used to zero and stamps lastReset. History is kept.
// @Tags admin
// @Produce json
// @Param uid path string true "User ID"
// @Success 200 {object} ResetResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/usage/{uid}/reset [post]
// @Security BearerAuth
func ResetUsage(store usage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.Param("uid"))
		if userID == "" {
			errors.BadRequest(c, "", "user id required", nil)
			return
		}

		stats, err := store.ResetUsage(c.Request.Context(), userID)
		if err != nil {
			errors.StorageUnavailable(c, err)
			return
		}

		logger.FromContext(c.Request.Context()).Info("usage reset",
			"target_user_id", userID,
			"admin_user_id", c.GetString("user_id"),
		)

		c.JSON(http.StatusOK, ResetResponse{
			Success: true,
			UserID:  userID,
			Usage:   stats,
		})
	}
}
