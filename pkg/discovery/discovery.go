// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"github.com/stacklok/ragops/pkg/logger"
	"github.com/stacklok/ragops/pkg/mcpconfig"
)

// Options controls a discovery run. The search path is an explicit argument
// rather than an implicit environment read so callers (and tests) decide
// exactly which directories get scanned.
type Options struct {
	// SearchPath is the list of directories to scan for server executables.
	SearchPath []string

	// DescriptorDir is the directory holding YAML server descriptor files.
	DescriptorDir string

	// ManualEntries are explicit name=command[:tools] server entries.
	ManualEntries []string
}

// Discover collects server descriptors from the three sources in fixed
// precedence order: executable scan, then descriptor files, then manual
// entries. A later source overrides an earlier one wholly on name collision.
func Discover(opts Options) (map[string]mcpconfig.Descriptor, error) {
	servers, err := ScanSearchPath(opts.SearchPath)
	if err != nil {
		return nil, err
	}

	fromFiles, err := LoadDescriptorDir(opts.DescriptorDir)
	if err != nil {
		return nil, err
	}
	for name, descriptor := range fromFiles {
		servers[name] = descriptor
	}

	for name, descriptor := range ParseManualEntries(opts.ManualEntries) {
		servers[name] = descriptor
	}

	logger.Debugw("discovery finished", "servers", len(servers))
	return servers, nil
}
