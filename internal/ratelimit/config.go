package ratelimit

import (
	"fmt"

	"github.com/ulule/limiter/v3"
)

const (
	DefaultRate = "30-M"
	keyPrefix   = "stylize:ratelimit"
)

// holds request rate limiting configuration
type Config struct {
	// whether limiting is active
	Enabled bool

	// ulule formatted rate, e.g. "30-M" for 30 requests per minute
	Rate string

	// redis key prefix when backed by redis
	Prefix string
}

// returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Rate:    DefaultRate,
		Prefix:  keyPrefix,
	}
}

func (c *Config) rate() (limiter.Rate, error) {
	formatted := c.Rate
	if formatted == "" {
		formatted = DefaultRate
	}

	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return limiter.Rate{}, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	return rate, nil
}
