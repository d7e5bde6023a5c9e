package usage

import (
	"context"
	"time"
)

// fresh zeroed record
func newRecord(userID string, now time.Time) *UsageRecord {
	return &UsageRecord{
		UserID:    userID,
		LastReset: now,
		History:   []HistoryEntry{},
	}
}

// applies one transformation to the record in place. Callers must hold
// whatever lock or transaction protects the record.
func (r *UsageRecord) apply(kind string, now time.Time, limit int) error {
	if r.TransformationsUsed >= limit {
		return &QuotaExceededError{Used: r.TransformationsUsed, Max: limit}
	}

	r.TransformationsUsed++
	r.History = append(r.History, HistoryEntry{
		Type:        kind,
		Timestamp:   now,
		CountAtTime: r.TransformationsUsed,
	})
	r.History = trimHistory(r.History, MaxHistoryEntries)

	return nil
}

func (r *UsageRecord) reset(now time.Time) {
	r.TransformationsUsed = 0
	r.LastReset = now
	if r.History == nil {
		r.History = []HistoryEntry{}
	}
}

// returns the stats view of the record against limit
func (r *UsageRecord) Stats(limit int) UsageStats {
	remaining := limit - r.TransformationsUsed
	if remaining < 0 {
		remaining = 0
	}

	recent := r.History
	if len(recent) > RecentHistoryEntries {
		recent = recent[len(recent)-RecentHistoryEntries:]
	}

	return UsageStats{
		TransformationsUsed:      r.TransformationsUsed,
		TransformationsRemaining: remaining,
		MaxTransformations:       limit,
		LastReset:                r.LastReset,
		RecentHistory:            append([]HistoryEntry(nil), recent...),
	}
}

// deep copy so callers never alias store-owned slices
func (r *UsageRecord) clone() *UsageRecord {
	out := *r
	out.History = append([]HistoryEntry{}, r.History...)
	return &out
}

// keeps the newest limit entries
func trimHistory(history []HistoryEntry, limit int) []HistoryEntry {
	if len(history) <= limit {
		return history
	}

	trimmed := make([]HistoryEntry, limit)
	copy(trimmed, history[len(history)-limit:])

	return trimmed
}

// fail-closed quota check shared by every backend
func canTransform(ctx context.Context, s Store, userID string) bool {
	record, err := s.GetUsage(ctx, userID)
	if err != nil {
		return false
	}

	return record.TransformationsUsed < s.Limit()
}

// returns the stats of userID, creating the record if needed
func GetStats(ctx context.Context, s Store, userID string) (*UsageStats, error) {
	record, err := s.GetUsage(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := record.Stats(s.Limit())
	return &stats, nil
}

func summary(r *UsageRecord, limit int) UsageStats {
	stats := r.Stats(limit)
	stats.RecentHistory = nil
	return stats
}
