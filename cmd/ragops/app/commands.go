// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app provides the entry point for the ragops command-line application.
package app

import (
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/ragops/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:               "ragops",
	DisableAutoGenTag: true,
	Short:             "ragops automates the upkeep of a self-optimizing RAG pipeline",
	Long: `ragops bundles the automation around a self-optimizing RAG pipeline:
it discovers MCP servers installed on the machine and maintains the MCP
configuration file, records pipeline metrics and tunes the pipeline
configuration from them, and folds QA feedback into the project backlog.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Re-initialize so the --debug flag takes effect.
		logger.Initialize()
	},
}

var rootSetup sync.Once

// NewRootCmd returns the root command for the ragops CLI.
func NewRootCmd() *cobra.Command {
	rootSetup.Do(func() {
		rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
		if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
			logger.Errorf("Error binding debug flag: %v", err)
		}

		rootCmd.AddCommand(discoverCmd)
		rootCmd.AddCommand(optimizeCmd)
		rootCmd.AddCommand(backlogCmd)
		rootCmd.AddCommand(newVersionCmd())
	})

	return rootCmd
}
