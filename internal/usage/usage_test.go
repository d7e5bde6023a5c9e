package usage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimHistory(t *testing.T) {
	history := make([]HistoryEntry, 0, 55)
	for i := 0; i < 55; i++ {
		history = append(history, HistoryEntry{Type: fmt.Sprint(i), CountAtTime: i})
	}

	trimmed := trimHistory(history, MaxHistoryEntries)

	require.Len(t, trimmed, MaxHistoryEntries)
	assert.Equal(t, "5", trimmed[0].Type)
	assert.Equal(t, "54", trimmed[len(trimmed)-1].Type)

	short := history[:3]
	assert.Equal(t, short, trimHistory(short, MaxHistoryEntries))
}

func TestApply_RejectsAtLimitWithoutMutation(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	record := newRecord("user-1", now)
	record.TransformationsUsed = 6

	err := record.apply(KindImageTransform, now, 6)

	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 6, record.TransformationsUsed)
	assert.Empty(t, record.History)
	assert.Equal(t, "Transformation limit exceeded. You have used 6/6 transformations.", err.Error())
}

func TestStats_ClampsRemaining(t *testing.T) {
	record := newRecord("user-1", time.Now())
	record.TransformationsUsed = 8

	stats := record.Stats(6)

	assert.Equal(t, 8, stats.TransformationsUsed)
	assert.Equal(t, 0, stats.TransformationsRemaining)
	assert.Equal(t, 6, stats.MaxTransformations)
}
