// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package discovery finds MCP servers on the local machine: executables on
// the search path, YAML descriptor files, and entries supplied on the
// command line.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/stacklok/ragops/pkg/logger"
	"github.com/stacklok/ragops/pkg/mcpconfig"
)

// serverNameSuffixes are the executable name suffixes recognized as MCP
// servers. The match is against the end of the name, not a substring.
var serverNameSuffixes = []string{"mcp-server", "-mcp", "_mcp"}

// ScanSearchPath lists every directory in dirs (no recursion) and returns a
// local descriptor for each regular file executable by the current user
// whose name ends with one of the recognized server suffixes. The server
// name is the filename without extension with dashes replaced by
// underscores; when two directories yield the same name, the later
// directory wins.
//
// Directories that do not exist are skipped silently. Any other listing
// failure is an error.
func ScanSearchPath(dirs []string) (map[string]mcpconfig.Descriptor, error) {
	servers := make(map[string]mcpconfig.Descriptor)

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}

		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			if !hasServerSuffix(entry.Name()) {
				continue
			}
			// access(2) with X_OK checks the calling user's own permission,
			// not merely whether some execute bit is set.
			if unix.Access(filepath.Join(dir, entry.Name()), unix.X_OK) != nil {
				continue
			}

			path, err := filepath.Abs(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s: %w", entry.Name(), err)
			}

			name := serverNameFromFile(entry.Name())
			servers[name] = mcpconfig.LocalServer(path, nil, nil)
			logger.Debugw("discovered server binary", "name", name, "path", path)
		}
	}

	return servers, nil
}

func hasServerSuffix(name string) bool {
	for _, suffix := range serverNameSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func serverNameFromFile(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.ReplaceAll(stem, "-", "_")
}
