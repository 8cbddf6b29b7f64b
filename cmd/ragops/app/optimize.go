// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/stacklok/ragops/pkg/gitops"
	"github.com/stacklok/ragops/pkg/metrics"
	"github.com/stacklok/ragops/pkg/prompt"
	"github.com/stacklok/ragops/pkg/tuner"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Record pipeline metrics and tune the pipeline configuration",
	Long: `The optimize command manages the self-optimization loop of the RAG
pipeline: recording per-run metrics, analyzing the recent history, and
adjusting the pipeline configuration accordingly.`,
}

var optimizeRecordCmd = &cobra.Command{
	Use:   "record [FILE]",
	Short: "Record one metrics snapshot",
	Long: `Record one metrics snapshot in the local metrics database. The snapshot
is read as JSON from FILE, or from standard input when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: optimizeRecordCmdFunc,
}

var optimizeAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze recent metrics and print the insights as JSON",
	Args:  cobra.NoArgs,
	RunE:  optimizeAnalyzeCmdFunc,
}

var optimizeRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Tune the pipeline configuration from recent metrics",
	Long: `Analyze the recent metrics history, adjust the pipeline configuration
file accordingly and print the resulting meta prompt. With --commit the
configuration change is committed to the enclosing Git repository, and with
--push the commit is also pushed to trigger CI.`,
	Args: cobra.NoArgs,
	RunE: optimizeRunCmdFunc,
}

var (
	optimizeDBPath     string
	optimizeWindow     int
	optimizeConfigPath string
	optimizeRepoDir    string
	optimizeCommit     bool
	optimizePush       bool
)

func init() {
	optimizeCmd.PersistentFlags().StringVar(&optimizeDBPath, "db", "",
		"Path to the metrics database (defaults to the XDG data directory)")
	optimizeCmd.PersistentFlags().IntVar(&optimizeWindow, "window", 10,
		"Number of recent snapshots to analyze")

	optimizeRunCmd.Flags().StringVar(&optimizeConfigPath, "config", "config.json",
		"Path to the pipeline configuration file to tune")
	optimizeRunCmd.Flags().StringVar(&optimizeRepoDir, "repo", ".",
		"Path to the Git repository holding the configuration file")
	optimizeRunCmd.Flags().BoolVar(&optimizeCommit, "commit", false,
		"Commit the tuned configuration")
	optimizeRunCmd.Flags().BoolVar(&optimizePush, "push", false,
		"Commit and push the tuned configuration (implies --commit)")

	optimizeCmd.AddCommand(optimizeRecordCmd)
	optimizeCmd.AddCommand(optimizeAnalyzeCmd)
	optimizeCmd.AddCommand(optimizeRunCmd)
}

// metricsDBPath resolves the metrics database location, defaulting to the
// XDG data directory.
func metricsDBPath() (string, error) {
	if optimizeDBPath != "" {
		return optimizeDBPath, nil
	}
	path, err := xdg.DataFile("ragops/metrics.db")
	if err != nil {
		return "", fmt.Errorf("failed to resolve metrics database path: %w", err)
	}
	return path, nil
}

func openStore(ctx context.Context) (*metrics.Store, error) {
	path, err := metricsDBPath()
	if err != nil {
		return nil, err
	}
	return metrics.OpenStore(ctx, path)
}

func optimizeRecordCmdFunc(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open snapshot file: %w", err)
		}
		defer f.Close()
		in = f
	}

	var snapshot metrics.Snapshot
	if err := json.NewDecoder(in).Decode(&snapshot); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(ctx, snapshot)
}

func optimizeAnalyzeCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshots, err := store.Recent(ctx, optimizeWindow)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(metrics.Analyze(snapshots), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func optimizeRunCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshots, err := store.Recent(ctx, optimizeWindow)
	if err != nil {
		return err
	}
	insights := metrics.Analyze(snapshots)

	cfg, err := tuner.AutoTune(insights, optimizeConfigPath)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), prompt.Build(insights, cfg))

	if !optimizeCommit && !optimizePush {
		return nil
	}

	git := gitops.NewDefaultClient()
	if err := git.CommitAll(ctx, optimizeRepoDir, gitops.CommitMessage); err != nil {
		return err
	}
	if optimizePush {
		return git.Push(ctx, optimizeRepoDir)
	}
	return nil
}
