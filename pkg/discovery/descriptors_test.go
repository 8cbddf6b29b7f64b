// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDescriptor(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadDescriptorDir_MissingDirIsEmpty(t *testing.T) {
	t.Parallel()

	servers, err := LoadDescriptorDir(filepath.Join(t.TempDir(), "mcp_servers"))
	require.NoError(t, err)
	assert.Empty(t, servers)
}

func TestLoadDescriptorDir_PassesFieldsThroughVerbatim(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDescriptor(t, dir, "sentry.yaml", `
name: sentry
type: remote
url: https://sentry.example.com/mcp
timeout_seconds: 30
labels:
  team: platform
`)

	servers, err := LoadDescriptorDir(dir)
	require.NoError(t, err)

	require.Contains(t, servers, "sentry")
	descriptor := servers["sentry"]
	assert.Equal(t, "remote", descriptor["type"])
	assert.Equal(t, "https://sentry.example.com/mcp", descriptor["url"])
	assert.Equal(t, 30, descriptor["timeout_seconds"])
	assert.NotContains(t, descriptor, "name", "the name key becomes the map key, not a field")
}

func TestLoadDescriptorDir_MissingNameIsTypedError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDescriptor(t, dir, "broken.yaml", "type: local\ncommand: /bin/tool\n")

	_, err := LoadDescriptorDir(dir)
	require.Error(t, err)

	var missingField *MissingFieldError
	require.ErrorAs(t, err, &missingField)
	assert.Equal(t, "name", missingField.Field)
	assert.Equal(t, filepath.Join(dir, "broken.yaml"), missingField.Path)
}

func TestLoadDescriptorDir_LaterFileWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDescriptor(t, dir, "01-first.yaml", "name: shared\ncommand: /bin/first\n")
	writeDescriptor(t, dir, "02-second.yaml", "name: shared\ncommand: /bin/second\n")

	servers, err := LoadDescriptorDir(dir)
	require.NoError(t, err)

	require.Contains(t, servers, "shared")
	assert.Equal(t, "/bin/second", servers["shared"]["command"])
}

func TestLoadDescriptorDir_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDescriptor(t, dir, "README.md", "not a descriptor")
	writeDescriptor(t, dir, "server.yml", "name: close-but-no\n")
	writeDescriptor(t, dir, "real.yaml", "name: real\ncommand: /bin/real\n")

	servers, err := LoadDescriptorDir(dir)
	require.NoError(t, err)
	assert.Len(t, servers, 1)
	assert.Contains(t, servers, "real")
}

func TestLoadDescriptorDir_MalformedYAMLIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDescriptor(t, dir, "bad.yaml", "name: [unclosed\n")

	_, err := LoadDescriptorDir(dir)
	require.Error(t, err)

	var missingField *MissingFieldError
	assert.False(t, errors.As(err, &missingField), "a parse failure is not a missing-field error")
}
