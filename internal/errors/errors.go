package errors

import (
	"net/http"

	"codeberg.org/stylize/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP handlers:
//   - Use errors.InternalError(), errors.BadRequest(), etc. These write the
//     response and abort the chain; InternalError also logs.
//   - Use logger.ErrorErr() only where processing continues after a failure.
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error.
//
// For services, stores and clients:
//   - Return wrapped errors with fmt.Errorf("context: %w", err) or a sentinel.
//   - Let the handler decide how to log and respond.

const (
	CodeNoToken              = "NO_TOKEN"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeForbidden            = "FORBIDDEN"
	CodeBadRequest           = "BAD_REQUEST"
	CodeNoImage              = "NO_IMAGE"
	CodeInvalidImage         = "INVALID_IMAGE"
	CodeImageTooLarge        = "IMAGE_TOO_LARGE"
	CodeInvalidStyle         = "INVALID_STYLE"
	CodeLimitExceeded        = "LIMIT_EXCEEDED"
	CodeTooManyRequests      = "TOO_MANY_REQUESTS"
	CodeTransformationFailed = "TRANSFORMATION_FAILED"
	CodeStorageUnavailable   = "STORAGE_UNAVAILABLE"
	CodeServerError          = "SERVER_ERROR"
)

// 401, credential missing
func NoToken(c *gin.Context) {
	abort(c, http.StatusUnauthorized, CodeNoToken, "Access token required", "")
}

// 403, credential present but rejected by the identity provider
func InvalidToken(c *gin.Context) {
	abort(c, http.StatusForbidden, CodeInvalidToken, "Invalid or expired token", "")
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "permission denied"
	}

	abort(c, http.StatusForbidden, CodeForbidden, message, "")
}

// 400 with an explicit code; the error text is surfaced as details
func BadRequest(c *gin.Context, code, message string, err error) {
	if code == "" {
		code = CodeBadRequest
	}

	if message == "" {
		message = "invalid request"
	}

	abort(c, http.StatusBadRequest, code, message, sanitizeError(err))
}

// 429 for an exhausted per-user quota
func QuotaExceeded(c *gin.Context, message string, usage any) {
	if message == "" {
		message = "Transformation limit exceeded."
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, QuotaResponse{
		ErrorResponse: ErrorResponse{
			Success: false,
			Error:   message,
			Code:    CodeLimitExceeded,
			Message: message,
		},
		Usage: usage,
	})
}

// 429 for request-rate limiting, distinct from the quota
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}

	abort(c, http.StatusTooManyRequests, CodeTooManyRequests, message, "")
}

// 500 after the image provider failed; nothing was charged
func TransformationFailed(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error("image transformation failed",
		"error", err,
		"path", c.Request.URL.Path,
		"user_id", c.GetString("user_id"),
	)

	abort(c, http.StatusInternalServerError, CodeTransformationFailed, "Error transforming image", sanitizeError(err))
}

// 500 when the usage store cannot be reached
func StorageUnavailable(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error("usage storage unavailable",
		"error", err,
		"path", c.Request.URL.Path,
		"user_id", c.GetString("user_id"),
	)

	abort(c, http.StatusInternalServerError, CodeStorageUnavailable, "usage storage unavailable", sanitizeError(err))
}

// 500 for anything else
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	logger.FromContext(c.Request.Context()).Error(message,
		"error", err,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"user_id", c.GetString("user_id"),
	)

	abort(c, http.StatusInternalServerError, CodeServerError, message, sanitizeError(err))
}

func abort(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
		Message: message,
		Details: details,
	})
}
