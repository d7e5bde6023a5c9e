package usage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// builds a fresh store for one subtest
type storeFactory func(t *testing.T, limit int, opts ...Option) Store

// monotonically advancing clock, one second per call
func steppingClock() func() time.Time {
	var ticks atomic.Int64
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	return func() time.Time {
		return base.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
}

var suiteUserSeq atomic.Int64

// unique per run so shared backends don't leak state between subtests
func freshUser(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), suiteUserSeq.Add(1))
}

func runStoreSuite(t *testing.T, newStore storeFactory) {
	t.Run("lazy create", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, 6)
		uid := freshUser("lazy")

		record, err := store.GetUsage(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, uid, record.UserID)
		assert.Equal(t, 0, record.TransformationsUsed)
		assert.Empty(t, record.History)
		assert.False(t, record.LastReset.IsZero())

		all, err := store.GetAllUsage(ctx)
		require.NoError(t, err)
		assert.Contains(t, all, uid)
	})

	t.Run("sequential records cap at limit", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, 6)
		uid := freshUser("seq")

		for i := 1; i <= 6; i++ {
			stats, err := store.RecordTransformation(ctx, uid, KindImageTransform)
			require.NoError(t, err)
			assert.Equal(t, i, stats.TransformationsUsed)
			assert.Equal(t, 6-i, stats.TransformationsRemaining)
			assert.Equal(t, 6, stats.MaxTransformations)
		}

		for i := 0; i < 3; i++ {
			_, err := store.RecordTransformation(ctx, uid, KindImageTransform)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrQuotaExceeded)

			var quotaErr *QuotaExceededError
			require.True(t, errors.As(err, &quotaErr))
			assert.Equal(t, 6, quotaErr.Used)
			assert.Equal(t, 6, quotaErr.Max)
		}

		record, err := store.GetUsage(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 6, record.TransformationsUsed)
		assert.Len(t, record.History, 6)
	})

	t.Run("history entries carry count at time", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, 6, WithClock(steppingClock()))
		uid := freshUser("hist")

		for i := 0; i < 3; i++ {
			_, err := store.RecordTransformation(ctx, uid, KindImageTransform)
			require.NoError(t, err)
		}

		record, err := store.GetUsage(ctx, uid)
		require.NoError(t, err)
		require.Len(t, record.History, 3)

		for i, entry := range record.History {
			assert.Equal(t, KindImageTransform, entry.Type)
			assert.Equal(t, i+1, entry.CountAtTime)
			if i > 0 {
				assert.True(t, entry.Timestamp.After(record.History[i-1].Timestamp))
			}
		}
	})

	t.Run("concurrent records never exceed limit", func(t *testing.T) {
		ctx := context.Background()
		const limit, extra = 6, 14
		store := newStore(t, limit)
		uid := freshUser("race")

		var (
			wg        sync.WaitGroup
			successes atomic.Int64
			exceeded  atomic.Int64
			other     atomic.Int64
		)

		start := make(chan struct{})

		for i := 0; i < limit+extra; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start

				_, err := store.RecordTransformation(ctx, uid, KindImageTransform)
				switch {
				case err == nil:
					successes.Add(1)
				case errors.Is(err, ErrQuotaExceeded):
					exceeded.Add(1)
				default:
					other.Add(1)
				}
			}()
		}

		close(start)
		wg.Wait()

		assert.Equal(t, int64(limit), successes.Load())
		assert.Equal(t, int64(extra), exceeded.Load())
		assert.Equal(t, int64(0), other.Load())

		record, err := store.GetUsage(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, limit, record.TransformationsUsed)
		assert.Len(t, record.History, limit)
	})

	t.Run("reset zeroes counter and keeps history", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, 6, WithClock(steppingClock()))
		uid := freshUser("reset")

		for i := 0; i < 4; i++ {
			_, err := store.RecordTransformation(ctx, uid, KindImageTransform)
			require.NoError(t, err)
		}

		before, err := store.GetUsage(ctx, uid)
		require.NoError(t, err)

		stats, err := store.ResetUsage(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TransformationsUsed)
		assert.Equal(t, 6, stats.TransformationsRemaining)

		after, err := store.GetUsage(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 0, after.TransformationsUsed)
		assert.True(t, after.LastReset.After(before.LastReset))
		assert.Equal(t, before.History, after.History)
		assert.True(t, store.CanTransform(ctx, uid))
	})

	t.Run("history bounded across resets", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, 6)
		uid := freshUser("bound")

		for i := 0; i < 60; i++ {
			if i > 0 && i%6 == 0 {
				_, err := store.ResetUsage(ctx, uid)
				require.NoError(t, err)
			}

			_, err := store.RecordTransformation(ctx, uid, fmt.Sprintf("kind-%02d", i))
			require.NoError(t, err)
		}

		record, err := store.GetUsage(ctx, uid)
		require.NoError(t, err)
		require.Len(t, record.History, MaxHistoryEntries)
		assert.Equal(t, "kind-10", record.History[0].Type)
		assert.Equal(t, "kind-59", record.History[MaxHistoryEntries-1].Type)

		stats, err := GetStats(ctx, store, uid)
		require.NoError(t, err)
		require.Len(t, stats.RecentHistory, RecentHistoryEntries)
		assert.Equal(t, "kind-50", stats.RecentHistory[0].Type)
	})

	t.Run("can transform boundary", func(t *testing.T) {
		ctx := context.Background()
		const limit = 6
		store := newStore(t, limit)
		uid := freshUser("bounds")

		for used := 0; used <= limit; used++ {
			assert.Equal(t, used < limit, store.CanTransform(ctx, uid), "used=%d", used)

			if used < limit {
				_, err := store.RecordTransformation(ctx, uid, KindImageTransform)
				require.NoError(t, err)
			}
		}
	})

	t.Run("ping", func(t *testing.T) {
		store := newStore(t, 6)
		assert.NoError(t, store.Ping(context.Background()))
	})
}
