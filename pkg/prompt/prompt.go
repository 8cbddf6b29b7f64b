// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package prompt renders the meta prompt handed to the optimizing model
// after a tuning run.
package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/stacklok/ragops/pkg/metrics"
)

// Build formats recent insights and the tuned configuration into the meta
// prompt, one proposal line per tuning rule that fired.
func Build(insights metrics.Insights, cfg map[string]any) string {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		// A config that round-tripped through JSON cannot fail to marshal.
		cfgJSON = []byte("{}")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent Stats: Latency=%s, ChunkCount=%s, Overlap=%s, DBRate=%s\n",
		formatAvg(insights.AvgLatency),
		formatAvg(insights.AvgChunkCount),
		formatAvg(insights.AvgOverlap),
		formatAvg(insights.AvgInsertRate),
	)
	fmt.Fprintf(&b, "Config: %s\n", cfgJSON)
	b.WriteString("Proposal: ")

	if insights.LatencySpike {
		b.WriteString("Decrease concurrency limit.\n")
	}
	if insights.AvgChunkCount != nil && *insights.AvgChunkCount > 1000 {
		b.WriteString("Increase chunk size.\n")
	}
	if insights.AvgOverlap != nil && *insights.AvgOverlap < 0.1 {
		b.WriteString("Increase token overlap.\n")
	}
	b.WriteString("Request validation tests for these changes.")

	return b.String()
}

func formatAvg(v *float64) string {
	if v == nil {
		return "none"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
