// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stacklok/ragops/pkg/discovery"
	"github.com/stacklok/ragops/pkg/mcpconfig"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover local MCP servers and generate or merge an MCP configuration",
	Long: `Discover local MCP servers and generate or merge an MCP configuration.

Servers are collected from three sources, each overriding the previous one
on name collision:

  1. executables on the search path whose names end with "mcp-server",
     "-mcp" or "_mcp"
  2. YAML descriptor files in the descriptor directory
  3. explicit --add entries of the form name=command[:tools]

Without --merge the discovered configuration is printed to standard output;
with --merge it is folded into the given JSON file, preserving every entry
and top-level key the discovery run does not touch.`,
	Args: cobra.NoArgs,
	RunE: discoverCmdFunc,
}

var (
	discoverMergePath     string
	discoverAddEntries    []string
	discoverDescriptorDir string
	discoverSearchPath    string
)

func init() {
	discoverCmd.Flags().StringVar(&discoverMergePath, "merge", "",
		"Path to an existing MCP JSON config to merge into")
	discoverCmd.Flags().StringArrayVar(&discoverAddEntries, "add", nil,
		"Manually add a server (name=command[:tools]); may be repeated")
	discoverCmd.Flags().StringVar(&discoverDescriptorDir, "descriptor-dir", "mcp_servers",
		"Directory holding YAML server descriptor files")
	discoverCmd.Flags().StringVar(&discoverSearchPath, "search-path", "",
		"Directories to scan for server executables (defaults to $PATH)")
}

func discoverCmdFunc(cmd *cobra.Command, _ []string) error {
	searchPath := discoverSearchPath
	if searchPath == "" {
		searchPath = os.Getenv("PATH")
	}

	servers, err := discovery.Discover(discovery.Options{
		SearchPath:    filepath.SplitList(searchPath),
		DescriptorDir: discoverDescriptorDir,
		ManualEntries: discoverAddEntries,
	})
	if err != nil {
		return err
	}

	if discoverMergePath == "" {
		doc, err := mcpconfig.Merge(nil, servers)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	existing, err := mcpconfig.LoadDocument(discoverMergePath)
	if err != nil {
		return err
	}
	merged, err := mcpconfig.Merge(existing, servers)
	if err != nil {
		return err
	}
	if err := mcpconfig.WriteDocument(discoverMergePath, merged); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote merged config to %s\n", discoverMergePath)
	return nil
}
