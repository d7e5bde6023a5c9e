package imagegen

import (
	"context"
	"errors"
	"fmt"
)

var (
	// provider answered but returned no image part
	ErrNoImage = errors.New("no image data returned from provider")

	// provider did not answer within the caller's deadline
	ErrProviderTimeout = errors.New("image provider timed out")
)

// non-2xx answer from the provider
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("image provider request failed with status %d: %s", e.StatusCode, e.Body)
}

// produces a stylized image from a source image and a prompt
type Generator interface {
	Generate(ctx context.Context, req Request) (*Image, error)
}

type Request struct {
	Prompt   string
	MIMEType string
	Data     []byte
}

type Image struct {
	MIMEType string
	Data     []byte
}
