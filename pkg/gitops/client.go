// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package gitops commits and pushes tuned configuration changes so CI picks
// them up.
package gitops

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/stacklok/ragops/pkg/logger"
)

// CommitMessage is the message used for auto-tuned configuration commits.
const CommitMessage = "Auto-tuned config based on metrics"

// Client defines the Git operations the pipeline needs.
type Client interface {
	// CommitAll stages every change in the repository at dir and commits it.
	CommitAll(ctx context.Context, dir, message string) error

	// Push pushes the current branch of the repository at dir to its
	// default remote.
	Push(ctx context.Context, dir string) error
}

// DefaultClient implements Client using go-git.
type DefaultClient struct{}

// NewDefaultClient creates a new DefaultClient.
func NewDefaultClient() *DefaultClient {
	return &DefaultClient{}
}

var _ Client = (*DefaultClient)(nil)

// CommitAll stages every change in the repository at dir and commits it.
// A worktree with nothing to commit is an error, matching the behavior of
// `git commit` with a clean tree.
func (*DefaultClient) CommitAll(_ context.Context, dir, message string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	logger.Infow("committed tuned config", "commit", hash.String())
	return nil
}

// Push pushes the current branch to the default remote. An already
// up-to-date remote is not an error.
func (*DefaultClient) Push(ctx context.Context, dir string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	if err := repo.PushContext(ctx, &git.PushOptions{}); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			logger.Debug("remote already up to date")
			return nil
		}
		return fmt.Errorf("failed to push: %w", err)
	}

	return nil
}
