package usage

import (
	"errors"
	"fmt"
)

var (
	ErrStorageUnavailable = errors.New("usage storage unavailable")
	ErrQuotaExceeded      = errors.New("transformation quota exceeded")
)

// returned by RecordTransformation when the user is at quota. No mutation happened.
type QuotaExceededError struct {
	Used int
	Max  int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("Transformation limit exceeded. You have used %d/%d transformations.", e.Used, e.Max)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
