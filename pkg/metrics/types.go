// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package metrics records pipeline run measurements in a local SQLite
// database and derives simple insights from the recent history.
package metrics

import "time"

// Snapshot is one pipeline run's worth of measurements.
type Snapshot struct {
	// Timestamp is when the snapshot was taken. The store fills it in at
	// insert time when zero.
	Timestamp time.Time `json:"timestamp,omitzero"`

	// FetchLatency is the document fetch latency in seconds.
	FetchLatency float64 `json:"fetch_latency"`

	// ChunkCount is the number of chunks produced by the run.
	ChunkCount int `json:"chunk_count"`

	// ChunkSizeDist is the distribution of chunk sizes in tokens.
	ChunkSizeDist []int `json:"chunk_size_dist"`

	// TokenOverlapRatio is the observed overlap between adjacent chunks.
	TokenOverlapRatio float64 `json:"token_overlap_ratio"`

	// DBInsertThroughput is the vector store insert rate in rows/second.
	DBInsertThroughput float64 `json:"db_insert_throughput"`
}

// Insights summarizes the recent snapshot history. Averages are nil when no
// history exists.
type Insights struct {
	AvgLatency    *float64 `json:"avg_latency"`
	AvgChunkCount *float64 `json:"avg_chunk_count"`
	AvgOverlap    *float64 `json:"avg_overlap"`
	AvgInsertRate *float64 `json:"avg_insert_rate"`

	// LatencySpike is set when the worst recent latency exceeds twice the
	// recent average.
	LatencySpike bool `json:"latency_spike"`
}
