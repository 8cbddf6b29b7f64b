// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package tuner adjusts the RAG pipeline configuration file based on
// insights derived from recent metrics.
package tuner

import (
	"encoding/json"
	"fmt"
	"os"

	"dario.cat/mergo"

	"github.com/stacklok/ragops/pkg/fileutils"
	"github.com/stacklok/ragops/pkg/logger"
	"github.com/stacklok/ragops/pkg/metrics"
)

const (
	minConcurrencyLimit = 1
	concurrencyStep     = 2
	chunkCountThreshold = 1000
	maxChunkSize        = 8192
	overlapThreshold    = 0.1
	overlapStep         = 16
)

// defaults are layered under the loaded configuration so the chunking rules
// have a base value to work from when the file omits one.
var defaults = map[string]any{
	"chunk_size":    float64(1024),
	"token_overlap": float64(32),
}

// AutoTune loads the pipeline configuration at path, applies the tuning
// rules for the given insights and writes the result back. The returned map
// is the tuned configuration. The file must exist; keys the rules do not
// touch are preserved unchanged.
func AutoTune(insights metrics.Insights, path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg map[string]any
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := mergo.Merge(&cfg, defaults); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if err := Apply(insights, cfg); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := fileutils.AtomicWriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return cfg, nil
}

// Apply mutates cfg according to the tuning rules:
//
//   - a latency spike lowers concurrency_limit by 2, floored at 1
//   - an average chunk count above 1000 doubles chunk_size, capped at 8192
//   - an average overlap below 0.1 raises token_overlap by 16
//
// Averages that are nil (no metrics history) fire no rule.
func Apply(insights metrics.Insights, cfg map[string]any) error {
	if insights.LatencySpike {
		limit, err := numberField(cfg, "concurrency_limit")
		if err != nil {
			return err
		}
		cfg["concurrency_limit"] = max(float64(minConcurrencyLimit), limit-concurrencyStep)
		logger.Debugw("lowered concurrency limit", "value", cfg["concurrency_limit"])
	}

	if insights.AvgChunkCount != nil && *insights.AvgChunkCount > chunkCountThreshold {
		size, err := numberField(cfg, "chunk_size")
		if err != nil {
			return err
		}
		cfg["chunk_size"] = min(size*2, float64(maxChunkSize))
		logger.Debugw("raised chunk size", "value", cfg["chunk_size"])
	}

	if insights.AvgOverlap != nil && *insights.AvgOverlap < overlapThreshold {
		overlap, err := numberField(cfg, "token_overlap")
		if err != nil {
			return err
		}
		cfg["token_overlap"] = overlap + overlapStep
		logger.Debugw("raised token overlap", "value", cfg["token_overlap"])
	}

	return nil
}

func numberField(cfg map[string]any, key string) (float64, error) {
	value, ok := cfg[key]
	if !ok {
		return 0, fmt.Errorf("config is missing required field %q", key)
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("config field %q is %T, expected a number", key, value)
	}
}
