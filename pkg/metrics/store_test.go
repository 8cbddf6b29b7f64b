// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(t.Context(), filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := t.Context()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(ctx, Snapshot{
			Timestamp:          base.Add(time.Duration(i) * time.Minute),
			FetchLatency:       0.8 + float64(i),
			ChunkCount:         900 + i,
			ChunkSizeDist:      []int{1024, 1024, 512},
			TokenOverlapRatio:  0.07,
			DBInsertThroughput: 120.5,
		}))
	}

	snapshots, err := store.Recent(ctx, 2)
	require.NoError(t, err)

	require.Len(t, snapshots, 2)
	// Newest first.
	assert.True(t, snapshots[0].Timestamp.Equal(base.Add(2*time.Minute)))
	assert.True(t, snapshots[1].Timestamp.Equal(base.Add(1*time.Minute)))
	assert.Equal(t, 902, snapshots[0].ChunkCount)
	assert.Equal(t, []int{1024, 1024, 512}, snapshots[0].ChunkSizeDist)
}

func TestStore_RecentOrdersFractionalSecondsWithinOneSecond(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := t.Context()

	// Both snapshots fall in the same second; the one without a fractional
	// component must still sort as the older of the two.
	whole := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fractional := whole.Add(500 * time.Millisecond)

	require.NoError(t, store.Record(ctx, Snapshot{Timestamp: whole, FetchLatency: 1}))
	require.NoError(t, store.Record(ctx, Snapshot{Timestamp: fractional, FetchLatency: 2}))

	snapshots, err := store.Recent(ctx, 2)
	require.NoError(t, err)

	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[0].Timestamp.Equal(fractional))
	assert.True(t, snapshots[1].Timestamp.Equal(whole))
}

func TestStore_RecordNormalizesZoneToUTC(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := t.Context()

	zone := time.FixedZone("UTC+2", 2*60*60)
	early := time.Date(2025, 6, 1, 14, 0, 0, 0, zone) // 12:00 UTC
	late := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, Snapshot{Timestamp: early}))
	require.NoError(t, store.Record(ctx, Snapshot{Timestamp: late}))

	snapshots, err := store.Recent(ctx, 2)
	require.NoError(t, err)

	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[0].Timestamp.Equal(late))
	assert.True(t, snapshots[1].Timestamp.Equal(early))
}

func TestStore_RecordFillsZeroTimestamp(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := t.Context()

	before := time.Now().UTC()
	require.NoError(t, store.Record(ctx, Snapshot{FetchLatency: 0.5}))

	snapshots, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	assert.False(t, snapshots[0].Timestamp.IsZero())
	assert.False(t, snapshots[0].Timestamp.Before(before.Truncate(time.Second)))
}

func TestStore_RecentOnEmptyStore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	snapshots, err := store.Recent(t.Context(), 10)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestStore_RecentLimitLargerThanHistory(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, store.Record(ctx, Snapshot{FetchLatency: 1}))

	snapshots, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}

func TestOpenStore_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metrics.db")
	ctx := t.Context()

	store, err := OpenStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, Snapshot{FetchLatency: 1}))
	require.NoError(t, store.Close())

	// Reopening applies migrations idempotently and sees existing rows.
	store, err = OpenStore(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	snapshots, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}
