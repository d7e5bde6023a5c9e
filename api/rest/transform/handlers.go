package transform

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/errors"
	"codeberg.org/stylize/server/internal/logger"
	"codeberg.org/stylize/server/internal/styles"
	"codeberg.org/stylize/server/internal/transform"
	"codeberg.org/stylize/server/internal/uploads"
	"codeberg.org/stylize/server/internal/usage"
	"github.com/gin-gonic/gin"
)

// slack for the multipart envelope and the style field on top of the image cap
const formOverhead = 1 << 20

// Transform godoc
// @Summary Stylize a portrait
// @Description Uploads an image and returns it transformed into the chosen artistic style. Each success consumes one transformation from the caller's quota; the updated usage is returned in the X-Usage-Stats header.
// @Tags transform
// @Accept multipart/form-data
// @Produce image/png,image/jpeg,json
// @Param image formData file true "JPEG or PNG image, at most 10 MiB"
// @Param style formData string false "Style name, defaults to Anime Style"
// @Success 200 {file} binary
// @Header 200 {string} X-Usage-Stats "JSON encoded usage stats"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 429 {object} errors.QuotaResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /transform [post]
// @Security BearerAuth
func Transform(svc *transform.Service, limits UploadLimits) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.NoToken(c)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limits.MaxBytes+formOverhead)

		header, err := c.FormFile("image")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				errors.BadRequest(c, errors.CodeImageTooLarge, "Image exceeds maximum upload size", nil)
				return
			}

			if errors.Is(err, http.ErrMissingFile) {
				errors.BadRequest(c, errors.CodeNoImage, "No image uploaded", nil)
				return
			}

			errors.BadRequest(c, "", "invalid multipart form", err)
			return
		}

		if err := uploads.Validate(header, limits.MaxBytes); err != nil {
			respondUploadError(c, err)
			return
		}

		styleName := c.PostForm("style")

		style, err := styles.Parse(styleName)
		if err != nil {
			errors.BadRequest(c, errors.CodeInvalidStyle, "Invalid style: "+styleName, nil)
			return
		}

		upload := uploads.New(header, limits.Dir, limits.MaxBytes)
		defer func() {
			if err := upload.Close(); err != nil {
				logger.ErrorErr(err, "failed to remove spooled upload", "user_id", userID)
			}
		}()

		result, err := svc.Transform(c.Request.Context(), transform.Input{
			UserID: userID,
			Style:  style,
			Image:  upload,
		})
		if err != nil {
			respondTransformError(c, err)
			return
		}

		logger.FromContext(c.Request.Context()).Info("image transformed",
			"style", style.String(),
			"used", result.Usage.TransformationsUsed,
			"remaining", result.Usage.TransformationsRemaining,
		)

		writeResult(c, result)
	}
}

// ListStyles godoc
// @Summary List available styles
// @Description Returns the style names accepted by the transform endpoint
// @Tags transform
// @Produce json
// @Success 200 {object} StylesResponse
// @Router /styles [get]
func ListStyles(c *gin.Context) {
	all := styles.All()
	infos := make([]StyleInfo, 0, len(all))

	for _, s := range all {
		infos = append(infos, StyleInfo{Name: s.String()})
	}

	c.JSON(http.StatusOK, StylesResponse{
		Success: true,
		Default: styles.Default.String(),
		Styles:  infos,
	})
}

func writeResult(c *gin.Context, result *transform.Result) {
	if wantsJSON(c) {
		c.JSON(http.StatusOK, TransformResponse{
			Success:          true,
			TransformedImage: dataURL(result.Image.MIMEType, result.Image.Data),
			Style:            result.Style.String(),
			Usage:            result.Usage,
		})
		return
	}

	// header carries the summary only; the full history is on /user/stats
	stats := *result.Usage
	stats.RecentHistory = nil

	encoded, err := json.Marshal(stats)
	if err != nil {
		errors.InternalError(c, "failed to encode usage stats", err)
		return
	}

	c.Header(usageStatsHeader, string(encoded))
	c.Data(http.StatusOK, result.Image.MIMEType, result.Image.Data)
}

func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, uploads.ErrNoFile):
		errors.BadRequest(c, errors.CodeNoImage, "No image uploaded", nil)
	case errors.Is(err, uploads.ErrTooLarge):
		errors.BadRequest(c, errors.CodeImageTooLarge, "Image exceeds maximum upload size", err)
	default:
		errors.BadRequest(c, errors.CodeInvalidImage, "Only image files are allowed!", err)
	}
}

func respondTransformError(c *gin.Context, err error) {
	var limitErr *transform.LimitError

	switch {
	case errors.As(err, &limitErr):
		errors.QuotaExceeded(c, limitErr.Error(), limitErr.Usage)
	case errors.Is(err, uploads.ErrTooLarge):
		errors.BadRequest(c, errors.CodeImageTooLarge, "Image exceeds maximum upload size", err)
	case errors.Is(err, transform.ErrTransformationFailed):
		errors.TransformationFailed(c, err)
	case errors.Is(err, usage.ErrStorageUnavailable):
		errors.StorageUnavailable(c, err)
	default:
		errors.InternalError(c, "Error transforming image", err)
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

func dataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
