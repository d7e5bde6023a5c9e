package transform

import (
	"errors"

	"codeberg.org/stylize/server/internal/imagegen"
	"codeberg.org/stylize/server/internal/styles"
	"codeberg.org/stylize/server/internal/usage"
)

// provider call failed or returned nothing; the quota was not charged
var ErrTransformationFailed = errors.New("image transformation failed")

// image bytes behind an upload; uploads.Upload satisfies it
type Source interface {
	MIMEType() string
	Bytes() ([]byte, error)
}

type Input struct {
	UserID string
	Style  styles.Style
	Image  Source
}

type Result struct {
	Image *imagegen.Image
	Style styles.Style
	Usage *usage.UsageStats
}

// the caller is out of transformations. Usage holds the numbers for the
// 429 body; errors.Is(err, usage.ErrQuotaExceeded) holds.
type LimitError struct {
	Usage *usage.UsageStats
}

func (e *LimitError) Error() string {
	return (&usage.QuotaExceededError{
		Used: e.Usage.TransformationsUsed,
		Max:  e.Usage.MaxTransformations,
	}).Error()
}

func (e *LimitError) Unwrap() error {
	return usage.ErrQuotaExceeded
}
