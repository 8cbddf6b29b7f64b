// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/ragops/pkg/mcpconfig"
)

// descriptorExt is the extension of server descriptor files.
const descriptorExt = ".yaml"

// MissingFieldError reports a descriptor file that lacks a required field.
type MissingFieldError struct {
	// Path is the descriptor file that failed validation.
	Path string
	// Field is the name of the missing field.
	Field string
}

// Error returns the error message.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("descriptor %s: missing required field %q", e.Path, e.Field)
}

// LoadDescriptorDir parses every *.yaml file in dir into a server descriptor.
// Each document must carry a string "name" field; every other key passes
// through to the descriptor verbatim, so remote servers, extra transport
// settings and anything else the file declares survive unchanged. Files are
// read in lexical order and later files override earlier ones on name
// collision.
//
// A missing directory yields an empty result. A descriptor without a name is
// a *MissingFieldError, and parse failures are fatal.
func LoadDescriptorDir(dir string) (map[string]mcpconfig.Descriptor, error) {
	servers := make(map[string]mcpconfig.Descriptor)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return servers, nil
		}
		return nil, fmt.Errorf("failed to list descriptor directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != descriptorExt {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := loadDescriptorFile(path)
		if err != nil {
			return nil, err
		}

		name, ok := doc["name"].(string)
		if !ok || name == "" {
			return nil, &MissingFieldError{Path: path, Field: "name"}
		}

		descriptor := make(mcpconfig.Descriptor, len(doc)-1)
		for key, value := range doc {
			if key != "name" {
				descriptor[key] = value
			}
		}
		servers[name] = descriptor
	}

	return servers, nil
}

func loadDescriptorFile(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor %s: %w", path, err)
	}
	return doc, nil
}
