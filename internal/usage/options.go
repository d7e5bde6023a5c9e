package usage

import "time"

type options struct {
	now func() time.Time
}

type Option func(*options)

// overrides the time source (tests)
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now: func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultMaxTransformations
	}

	return limit
}
