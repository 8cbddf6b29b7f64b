// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package backlog folds QA feedback into the project backlog file.
package backlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/stacklok/ragops/pkg/fileutils"
	"github.com/stacklok/ragops/pkg/logger"
)

// Story is one backlog item.
type Story struct {
	Title  string `json:"title"`
	Points int    `json:"points"`
}

// Backlog is the stories document persisted in backlog.json.
type Backlog struct {
	Stories []Story `json:"stories"`
}

// Bug is one reported defect in the QA feedback.
type Bug struct {
	Title string `json:"title"`
}

// Feedback is the QA feedback document read from standard input.
type Feedback struct {
	Bugs []Bug `json:"bugs"`
}

// MergeFeedback reads QA feedback JSON from r and prepends each reported bug
// to the backlog at path as a one-point story, elevating it above existing
// work. The backlog file must already exist.
func MergeFeedback(r io.Reader, path string) error {
	var feedback Feedback
	if err := json.NewDecoder(r).Decode(&feedback); err != nil {
		return fmt.Errorf("failed to parse QA feedback: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backlog %s: %w", path, err)
	}

	var backlog Backlog
	if err := json.Unmarshal(content, &backlog); err != nil {
		return fmt.Errorf("failed to parse backlog %s: %w", path, err)
	}

	stories := make([]Story, 0, len(feedback.Bugs)+len(backlog.Stories))
	for _, bug := range feedback.Bugs {
		stories = append(stories, Story{Title: bug.Title, Points: 1})
	}
	backlog.Stories = append(stories, backlog.Stories...)

	data, err := json.MarshalIndent(backlog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backlog: %w", err)
	}
	data = append(data, '\n')

	if err := fileutils.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write backlog %s: %w", path, err)
	}

	logger.Infow("merged QA feedback into backlog", "bugs", len(feedback.Bugs), "path", path)
	return nil
}
