package transform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/stylize/server/internal/imagegen"
	"codeberg.org/stylize/server/internal/usage"
)

const DefaultTimeout = 60 * time.Second

type Service struct {
	store     usage.Store
	generator imagegen.Generator
	timeout   time.Duration
}

func NewService(store usage.Store, generator imagegen.Generator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Service{store: store, generator: generator, timeout: timeout}
}

// runs one transformation for an authenticated user:
// gate on quota, call the provider, then charge. Usage is only recorded
// after the provider returned an image, and a generated image is dropped
// when a concurrent request took the last slot in the meantime.
func (s *Service) Transform(ctx context.Context, in Input) (*Result, error) {
	if !in.Style.Valid() {
		return nil, fmt.Errorf("invalid style %d", in.Style)
	}

	if !s.store.CanTransform(ctx, in.UserID) {
		return nil, s.limitError(ctx, in.UserID, nil)
	}

	data, err := in.Image.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	image, err := s.generator.Generate(genCtx, imagegen.Request{
		Prompt:   in.Style.Prompt(),
		MIMEType: in.Image.MIMEType(),
		Data:     data,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransformationFailed, err)
	}

	stats, err := s.store.RecordTransformation(ctx, in.UserID, usage.KindImageTransform)
	if err != nil {
		var quotaErr *usage.QuotaExceededError
		if errors.As(err, &quotaErr) {
			return nil, s.limitError(ctx, in.UserID, quotaErr)
		}

		return nil, fmt.Errorf("failed to record transformation: %w", err)
	}

	return &Result{Image: image, Style: in.Style, Usage: stats}, nil
}

// builds the 429 payload. When the store cannot report stats after a lost
// race, the numbers carried by the quota error are used instead.
func (s *Service) limitError(ctx context.Context, userID string, quotaErr *usage.QuotaExceededError) error {
	stats, err := usage.GetStats(ctx, s.store, userID)
	if err == nil {
		return &LimitError{Usage: stats}
	}

	if quotaErr == nil {
		return fmt.Errorf("failed to load usage after denial: %w", err)
	}

	return &LimitError{Usage: &usage.UsageStats{
		TransformationsUsed:      quotaErr.Used,
		TransformationsRemaining: 0,
		MaxTransformations:       quotaErr.Max,
	}}
}
