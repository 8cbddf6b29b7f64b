// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

// Analyze derives insights from a set of snapshots. With no snapshots all
// averages are nil and no spike is reported.
func Analyze(snapshots []Snapshot) Insights {
	if len(snapshots) == 0 {
		return Insights{}
	}

	var (
		latencySum float64
		latencyMax float64
		chunkSum   float64
		overlapSum float64
		insertSum  float64
	)
	for _, s := range snapshots {
		latencySum += s.FetchLatency
		if s.FetchLatency > latencyMax {
			latencyMax = s.FetchLatency
		}
		chunkSum += float64(s.ChunkCount)
		overlapSum += s.TokenOverlapRatio
		insertSum += s.DBInsertThroughput
	}

	n := float64(len(snapshots))
	avgLatency := latencySum / n

	return Insights{
		AvgLatency:    &avgLatency,
		AvgChunkCount: ptr(chunkSum / n),
		AvgOverlap:    ptr(overlapSum / n),
		AvgInsertRate: ptr(insertSum / n),
		LatencySpike:  latencyMax > 2*avgLatency,
	}
}

func ptr(v float64) *float64 {
	return &v
}
