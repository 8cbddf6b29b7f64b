// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package mcpconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/tailscale/hujson"

	"github.com/stacklok/ragops/pkg/fileutils"
)

// lockTimeout is the maximum time to wait for a file lock
const lockTimeout = 1 * time.Second

// LoadDocument reads a configuration document from path. A missing file is
// treated as an empty document, not an error. The file may contain comments
// and trailing commas (JWCC), matching what editors and MCP clients tend to
// leave in their config files; anything else malformed is an error.
func LoadDocument(path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(content) == 0 {
		return Document{}, nil
	}

	standardized, err := hujson.Standardize(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(standardized, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// WriteDocument writes doc to path as indented JSON, creating parent
// directories as needed. The write happens under a sidecar file lock and via
// a temp-file rename, so concurrent invocations against the same path cannot
// interleave partial content.
func WriteDocument(path string, doc Document) error {
	// The sidecar lock file lives next to the target, so the parent
	// directory must exist before the lock can be taken.
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	return withFileLock(path, func() error {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		data = append(data, '\n')

		if err := fileutils.AtomicWriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	})
}

// withFileLock executes fn while holding a file lock for the given path.
// The lock lives in a sidecar ".lock" file for cross-platform compatibility.
func withFileLock(path string, fn func() error) error {
	lockPath := path + ".lock"
	fileLock := flock.New(lockPath)

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock: timeout after %v", lockTimeout)
	}
	defer fileLock.Unlock()

	return fn()
}
