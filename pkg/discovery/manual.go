// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"strings"

	"github.com/stacklok/ragops/pkg/logger"
	"github.com/stacklok/ragops/pkg/mcpconfig"
)

// ParseManualEntries parses explicit server entries of the form
//
//	name=command[:tools]
//
// where tools is either the wildcard token or a comma-separated list, taken
// from the segment after the last colon. The command string splits on
// whitespace into the command itself and its arguments. Entries without an
// "=" are not valid server specs and are skipped silently.
func ParseManualEntries(entries []string) map[string]mcpconfig.Descriptor {
	servers := make(map[string]mcpconfig.Descriptor)

	for _, entry := range entries {
		name, rest, found := strings.Cut(entry, "=")
		if !found {
			logger.Debugw("skipping malformed server entry", "entry", entry)
			continue
		}

		commandLine := rest
		var tools []string
		if idx := strings.LastIndex(rest, ":"); idx >= 0 {
			commandLine = rest[:idx]
			tools = parseToolList(rest[idx+1:])
		}

		var command string
		args := []string{}
		if fields := strings.Fields(commandLine); len(fields) > 0 {
			command = fields[0]
			args = fields[1:]
		}

		servers[name] = mcpconfig.LocalServer(command, args, tools)
	}

	return servers
}

// parseToolList interprets the tools segment of a manual entry. The wildcard
// token and an empty segment both mean "all tools".
func parseToolList(spec string) []string {
	if spec == "" || spec == mcpconfig.WildcardTool {
		return []string{mcpconfig.WildcardTool}
	}
	return strings.Split(spec, ",")
}
