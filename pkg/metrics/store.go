// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/stacklok/ragops/pkg/logger"
)

// timestampLayout is RFC 3339 with a fixed nine-digit fraction, so the TEXT
// timestamp column sorts lexically in chronological order. A bare
// RFC3339Nano value trims trailing zeros, which makes "...:00Z" sort after
// "...:00.5Z" within the same second.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists snapshots in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) the snapshot database at path and
// applies any pending schema migrations.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn from the pool.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debugw("opened metrics store", "path", path)
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one snapshot. A zero timestamp is replaced with the current
// UTC time.
func (s *Store) Record(ctx context.Context, snapshot Snapshot) error {
	ts := snapshot.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	// Normalize to UTC so every stored value shares the "Z" suffix and the
	// lexical order stays chronological.
	ts = ts.UTC()

	dist, err := json.Marshal(snapshot.ChunkSizeDist)
	if err != nil {
		return fmt.Errorf("failed to encode chunk size distribution: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO self_opt_metrics (
			timestamp, fetch_latency, chunk_count, chunk_size_dist,
			token_overlap_ratio, db_insert_throughput
		) VALUES (?, ?, ?, ?, ?, ?)`,
		ts.Format(timestampLayout),
		snapshot.FetchLatency,
		snapshot.ChunkCount,
		string(dist),
		snapshot.TokenOverlapRatio,
		snapshot.DBInsertThroughput,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// Recent returns up to n snapshots, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, fetch_latency, chunk_count, chunk_size_dist,
		       token_overlap_ratio, db_insert_throughput
		FROM self_opt_metrics
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var (
			snapshot Snapshot
			ts       string
			dist     string
		)
		if err := rows.Scan(
			&ts,
			&snapshot.FetchLatency,
			&snapshot.ChunkCount,
			&dist,
			&snapshot.TokenOverlapRatio,
			&snapshot.DBInsertThroughput,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		snapshot.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot timestamp %q: %w", ts, err)
		}
		if err := json.Unmarshal([]byte(dist), &snapshot.ChunkSizeDist); err != nil {
			return nil, fmt.Errorf("failed to decode chunk size distribution: %w", err)
		}

		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}

	return snapshots, nil
}
