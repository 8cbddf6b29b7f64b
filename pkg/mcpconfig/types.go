// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package mcpconfig defines the MCP server configuration document written by
// the discovery tooling and the merge semantics for updating one in place.
package mcpconfig

// ServersKey is the well-known top-level key under which all server
// descriptors are namespaced in a configuration document.
const ServersKey = "mcpServers"

// WildcardTool is the sentinel tool name meaning "all tools permitted".
const WildcardTool = "*"

// Descriptor describes how to reach one MCP server. The model is open:
// descriptors loaded from files may carry arbitrary extra fields, which are
// passed through to the output document verbatim.
type Descriptor map[string]any

// Document is a configuration document: a top-level mapping holding the
// server descriptors under ServersKey. Any other top-level keys belong to the
// host application and must survive merges untouched.
type Document map[string]any

// LocalServer builds a descriptor for a locally executable server.
// Nil args become an empty argument list and nil or empty tools default to
// the wildcard, so a descriptor never carries an empty tool set.
func LocalServer(command string, args []string, tools []string) Descriptor {
	if args == nil {
		args = []string{}
	}
	if len(tools) == 0 {
		tools = []string{WildcardTool}
	}
	return Descriptor{
		"type":    "local",
		"command": command,
		"args":    args,
		"tools":   tools,
	}
}

// Servers returns the descriptor mapping stored under ServersKey, or nil if
// the document has none.
func (d Document) Servers() map[string]any {
	servers, _ := d[ServersKey].(map[string]any)
	return servers
}
