// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/spf13/cobra"

	"github.com/stacklok/ragops/pkg/backlog"
)

var backlogCmd = &cobra.Command{
	Use:   "backlog",
	Short: "Manage the project backlog",
}

var backlogMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge QA feedback into the backlog",
	Long: `Read QA feedback JSON from standard input and promote every reported bug
to a top-priority story in the backlog file.`,
	Args: cobra.NoArgs,
	RunE: backlogMergeCmdFunc,
}

var backlogPath string

func init() {
	backlogMergeCmd.Flags().StringVar(&backlogPath, "backlog", "backlog.json",
		"Path to the backlog file")

	backlogCmd.AddCommand(backlogMergeCmd)
}

func backlogMergeCmdFunc(cmd *cobra.Command, _ []string) error {
	return backlog.MergeFeedback(cmd.InOrStdin(), backlogPath)
}
