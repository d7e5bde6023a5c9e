package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
)

// one user's quota numbers as reported by the admin API
type UserUsage struct {
	TransformationsUsed      int       `json:"transformationsUsed"`
	TransformationsRemaining int       `json:"transformationsRemaining"`
	MaxTransformations       int       `json:"maxTransformations"`
	LastReset                time.Time `json:"lastReset"`
}

type FetchFunc func(ctx context.Context) (map[string]UserUsage, error)

type ResetFunc func(ctx context.Context, userID string) (*UserUsage, error)

type Options struct {
	Endpoint string
	Interval time.Duration
	NoColor  bool
	Fetch    FetchFunc
	Reset    ResetFunc
}

// main TUI application model
type Model struct {
	endpoint string
	interval time.Duration
	fetch    FetchFunc
	reset    ResetFunc

	width  int
	height int

	fetching          bool
	lastSuccessAt     time.Time
	lastFetchDuration time.Duration
	lastError         string
	status            string

	// uid awaiting reset confirmation
	pendingReset string

	users  map[string]UserUsage
	table  table.Model
	styles styles
}

// sent on every poll interval
type pollTickMsg struct {
	at time.Time
}

// sent when a fetch completes
type fetchResultMsg struct {
	at       time.Time
	duration time.Duration
	users    map[string]UserUsage
	err      error
}

// sent when a reset completes
type resetResultMsg struct {
	userID string
	err    error
}
