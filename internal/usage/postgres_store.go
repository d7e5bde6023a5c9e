package usage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists one row per user in usage_records. Mutations run
// as a read-modify-write inside a transaction holding the row lock.
type PostgresStore struct {
	db    *pgxpool.Pool
	limit int
	opts  options
}

func NewPostgresStore(db *pgxpool.Pool, limit int, opts ...Option) *PostgresStore {
	return &PostgresStore{
		db:    db,
		limit: normalizeLimit(limit),
		opts:  buildOptions(opts),
	}
}

func (s *PostgresStore) Limit() int {
	return s.limit
}

// creates the usage_records table if missing
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, queryCreateTable); err != nil {
		return fmt.Errorf("failed to create usage_records table: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetUsage(ctx context.Context, userID string) (*UsageRecord, error) {
	if _, err := s.db.Exec(ctx, queryEnsureRecord, userID, s.opts.now()); err != nil {
		return nil, storageErr("create usage record", err)
	}

	record, err := scanRecord(s.db.QueryRow(ctx, querySelectRecord, userID))
	if err != nil {
		return nil, storageErr("read usage record", err)
	}

	return record, nil
}

func (s *PostgresStore) CanTransform(ctx context.Context, userID string) bool {
	return canTransform(ctx, s, userID)
}

func (s *PostgresStore) RecordTransformation(ctx context.Context, userID, kind string) (*UsageStats, error) {
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

func (s *PostgresStore) ResetUsage(ctx context.Context, userID string) (*UsageStats, error) {
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

// runs fn against the locked row and writes the result back in the same
// transaction. An error from fn rolls back without writing.
func (s *PostgresStore) mutate(ctx context.Context, userID string, fn func(*UsageRecord) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, queryEnsureRecord, userID, s.opts.now()); err != nil {
		return storageErr("create usage record", err)
	}

	record, err := scanRecord(tx.QueryRow(ctx, querySelectRecordForUpdate, userID))
	if err != nil {
		return storageErr("lock usage record", err)
	}

	if err := fn(record); err != nil {
		return err
	}

	history, err := json.Marshal(record.History)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if _, err := tx.Exec(ctx, queryUpdateRecord,
		record.UserID,
		record.TransformationsUsed,
		record.LastReset,
		string(history),
	); err != nil {
		return storageErr("write usage record", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit transaction", err)
	}

	return nil
}

func (s *PostgresStore) GetAllUsage(ctx context.Context) (map[string]UsageStats, error) {
	rows, err := s.db.Query(ctx, querySelectAll)
	if err != nil {
		return nil, storageErr("list usage records", err)
	}
	defer rows.Close()

	out := make(map[string]UsageStats)

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, storageErr("scan usage record", err)
		}

		out[record.UserID] = summary(record, s.limit)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("list usage records", err)
	}

	return out, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return storageErr("ping", err)
	}

	return nil
}

func scanRecord(row pgx.Row) (*UsageRecord, error) {
	var (
		record  UsageRecord
		history []byte
	)

	if err := row.Scan(&record.UserID, &record.TransformationsUsed, &record.LastReset, &history); err != nil {
		return nil, err
	}

	record.History = []HistoryEntry{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &record.History); err != nil {
			return nil, fmt.Errorf("failed to decode history: %w", err)
		}
	}

	record.LastReset = record.LastReset.UTC()

	return &record, nil
}
