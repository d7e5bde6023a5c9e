package usage

import (
	"context"
	"time"
)

const (
	// default per-user transformation quota
	DefaultMaxTransformations = 6

	// history entries kept per record, oldest evicted first
	MaxHistoryEntries = 50

	// history entries surfaced in UsageStats
	RecentHistoryEntries = 10

	KindImageTransform = "image_transform"
)

// persisted per-user counter plus bounded history
type UsageRecord struct {
	UserID              string         `json:"userId"`
	TransformationsUsed int            `json:"transformationsUsed"`
	LastReset           time.Time      `json:"lastReset"`
	History             []HistoryEntry `json:"history"`
}

type HistoryEntry struct {
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	CountAtTime int       `json:"count"`
}

// caller-facing view of a record against the quota
type UsageStats struct {
	TransformationsUsed      int            `json:"transformationsUsed"`
	TransformationsRemaining int            `json:"transformationsRemaining"`
	MaxTransformations       int            `json:"maxTransformations"`
	LastReset                time.Time      `json:"lastReset"`
	RecentHistory            []HistoryEntry `json:"recentHistory,omitempty"`
}

// durable, concurrency-safe quota accounting. RecordTransformation and
// ResetUsage are linearizable per user id.
type Store interface {
	// returns the record for userID, creating a zeroed one on first access
	GetUsage(ctx context.Context, userID string) (*UsageRecord, error)

	// reports whether userID is below quota; false on storage failure
	CanTransform(ctx context.Context, userID string) bool

	// atomically increments the counter, or fails with *QuotaExceededError
	RecordTransformation(ctx context.Context, userID, kind string) (*UsageStats, error)

	// zeroes the counter, keeping history
	ResetUsage(ctx context.Context, userID string) (*UsageStats, error)

	// bulk read of every known user, unordered
	GetAllUsage(ctx context.Context) (map[string]UsageStats, error)

	// checks storage connectivity
	Ping(ctx context.Context) error

	// configured quota
	Limit() int
}
