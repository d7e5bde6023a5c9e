package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyUsageRecord = "stylize:usage:%s"
	keyUsageUsers  = "stylize:usage:users"

	// optimistic transaction retries before giving up on a contended key
	maxWatchRetries = 50
	watchRetryDelay = 5 * time.Millisecond
)

// satisfied by *redis.Client and *redis.Tx
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps each record as a JSON document under its own key. Mutations
// use WATCH/MULTI so a concurrent write to the same key aborts and retries.
type RedisStore struct {
	client *redis.Client
	limit  int
	opts   options
}

func NewRedisStore(client *redis.Client, limit int, opts ...Option) *RedisStore {
	return &RedisStore{
		client: client,
		limit:  normalizeLimit(limit),
		opts:   buildOptions(opts),
	}
}

// creates a Redis-backed store from a URL
func NewRedisStoreFromURL(ctx context.Context, redisURL string, limit int, opts ...Option) (*RedisStore, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStore(client, limit, opts...), nil
}

func (s *RedisStore) Limit() int {
	return s.limit
}

func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) GetUsage(ctx context.Context, userID string) (*UsageRecord, error) {
	key := fmt.Sprintf(keyUsageRecord, userID)

	record, err := s.read(ctx, s.client, key)
	if err != nil {
		return nil, storageErr("read usage record", err)
	}

	if record != nil {
		return record, nil
	}

	data, err := json.Marshal(newRecord(userID, s.opts.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to encode usage record: %w", err)
	}

	// SETNX so a concurrent creator or incrementer wins
	pipe := s.client.TxPipeline()
	pipe.SetNX(ctx, key, data, 0)
	pipe.SAdd(ctx, keyUsageUsers, userID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, storageErr("create usage record", err)
	}

	record, err = s.read(ctx, s.client, key)
	if err != nil {
		return nil, storageErr("read usage record", err)
	}

	if record == nil {
		return nil, storageErr("read usage record", errors.New("record vanished after create"))
	}

	return record, nil
}

func (s *RedisStore) CanTransform(ctx context.Context, userID string) bool {
	return canTransform(ctx, s, userID)
}

func (s *RedisStore) RecordTransformation(ctx context.Context, userID, kind string) (*UsageStats, error) {
	var stats UsageStats

	err := s.mutate(ctx, userID, func(record *UsageRecord) error {
		if err := record.apply(kind, s.opts.now(), s.limit); err != nil {
			return err
		}

		stats = record.Stats(s.limit)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *RedisStore) ResetUsage(ctx context.Context, userID string) (*UsageStats, error) {
	var stats UsageStats

	err := s.mutate(ctx, userID, func(record *UsageRecord) error {
		record.reset(s.opts.now())
		stats = record.Stats(s.limit)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// optimistic read-modify-write on the record key
func (s *RedisStore) mutate(ctx context.Context, userID string, fn func(*UsageRecord) error) error {
	key := fmt.Sprintf(keyUsageRecord, userID)

	txf := func(tx *redis.Tx) error {
		record, err := s.read(ctx, tx, key)
		if err != nil {
			return storageErr("read usage record", err)
		}

		if record == nil {
			record = newRecord(userID, s.opts.now())
		}

		if err := fn(record); err != nil {
			return err
		}

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode usage record: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, keyUsageUsers, userID)
			return nil
		})

		return err
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}

		if !errors.Is(err, redis.TxFailedErr) {
			if errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrQuotaExceeded) {
				return err
			}

			return storageErr("commit usage record", err)
		}

		select {
		case <-ctx.Done():
			return storageErr("commit usage record", ctx.Err())
		case <-time.After(watchRetryDelay):
		}
	}

	return storageErr("commit usage record", fmt.Errorf("too much contention on %s", key))
}

func (s *RedisStore) GetAllUsage(ctx context.Context) (map[string]UsageStats, error) {
	userIDs, err := s.client.SMembers(ctx, keyUsageUsers).Result()
	if err != nil {
		return nil, storageErr("list usage users", err)
	}

	out := make(map[string]UsageStats, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(userIDs))
	for i, uid := range userIDs {
		keys[i] = fmt.Sprintf(keyUsageRecord, uid)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storageErr("read usage records", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var record UsageRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, storageErr("decode usage record", err)
		}

		out[record.UserID] = summary(&record, s.limit)
	}

	return out, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return storageErr("ping", err)
	}

	return nil
}

// returns nil, nil when the key does not exist
func (s *RedisStore) read(ctx context.Context, c stringGetter, key string) (*UsageRecord, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var record UsageRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode usage record: %w", err)
	}

	if record.History == nil {
		record.History = []HistoryEntry{}
	}

	return &record, nil
}
