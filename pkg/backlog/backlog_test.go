// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package backlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBacklog(t *testing.T, backlog Backlog) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backlog.json")
	data, err := json.Marshal(backlog)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func readBacklog(t *testing.T, path string) Backlog {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var backlog Backlog
	require.NoError(t, json.Unmarshal(content, &backlog))
	return backlog
}

func TestMergeFeedback_PrependsBugsAsTopPriority(t *testing.T) {
	t.Parallel()

	path := writeBacklog(t, Backlog{Stories: []Story{
		{Title: "existing story", Points: 5},
	}})

	feedback := `{"bugs": [{"title": "crash on empty config"}, {"title": "wrong merge order"}]}`
	require.NoError(t, MergeFeedback(strings.NewReader(feedback), path))

	backlog := readBacklog(t, path)
	require.Len(t, backlog.Stories, 3)
	assert.Equal(t, Story{Title: "crash on empty config", Points: 1}, backlog.Stories[0])
	assert.Equal(t, Story{Title: "wrong merge order", Points: 1}, backlog.Stories[1])
	assert.Equal(t, Story{Title: "existing story", Points: 5}, backlog.Stories[2])
}

func TestMergeFeedback_NoBugsLeavesBacklogUnchanged(t *testing.T) {
	t.Parallel()

	path := writeBacklog(t, Backlog{Stories: []Story{{Title: "story", Points: 3}}})

	require.NoError(t, MergeFeedback(strings.NewReader(`{"bugs": []}`), path))

	backlog := readBacklog(t, path)
	require.Len(t, backlog.Stories, 1)
	assert.Equal(t, "story", backlog.Stories[0].Title)
}

func TestMergeFeedback_MissingBacklogIsFatal(t *testing.T) {
	t.Parallel()

	err := MergeFeedback(strings.NewReader(`{"bugs": []}`), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMergeFeedback_MalformedFeedbackIsFatal(t *testing.T) {
	t.Parallel()

	path := writeBacklog(t, Backlog{})

	err := MergeFeedback(strings.NewReader(`{"bugs": [`), path)
	assert.Error(t, err)
}
