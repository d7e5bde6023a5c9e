package usage

import (
	"context"
	"sync"
)

// MemoryStore keeps usage records in process memory. A single mutex serializes
// every mutation, which makes each operation trivially linearizable.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*UsageRecord
	limit   int
	opts    options
}

func NewMemoryStore(limit int, opts ...Option) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*UsageRecord),
		limit:   normalizeLimit(limit),
		opts:    buildOptions(opts),
	}
}

func (s *MemoryStore) Limit() int {
	return s.limit
}

// caller must hold s.mu
func (s *MemoryStore) load(userID string) *UsageRecord {
	record, ok := s.records[userID]
	if !ok {
		record = newRecord(userID, s.opts.now())
		s.records[userID] = record
	}

	return record
}

func (s *MemoryStore) GetUsage(ctx context.Context, userID string) (*UsageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("get usage", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(userID).clone(), nil
}

func (s *MemoryStore) CanTransform(ctx context.Context, userID string) bool {
	return canTransform(ctx, s, userID)
}

func (s *MemoryStore) RecordTransformation(ctx context.Context, userID, kind string) (*UsageStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("record transformation", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.load(userID)
	if err := record.apply(kind, s.opts.now(), s.limit); err != nil {
		return nil, err
	}

	stats := record.Stats(s.limit)
	return &stats, nil
}

func (s *MemoryStore) ResetUsage(ctx context.Context, userID string) (*UsageStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("reset usage", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.load(userID)
	record.reset(s.opts.now())

	stats := record.Stats(s.limit)
	return &stats, nil
}

func (s *MemoryStore) GetAllUsage(ctx context.Context) (map[string]UsageStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("get all usage", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]UsageStats, len(s.records))
	for uid, record := range s.records {
		out[uid] = summary(record, s.limit)
	}

	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
