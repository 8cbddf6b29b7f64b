// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package mcpconfig

import "fmt"

// Merge produces a new document containing every top-level key of existing
// plus the given servers under ServersKey. Each named server replaces any
// existing entry of the same name wholly; existing entries not named in
// servers and unrelated top-level keys are preserved unchanged. A nil
// existing document is treated as empty. Merge never mutates its inputs and
// is idempotent.
func Merge(existing Document, servers map[string]Descriptor) (Document, error) {
	merged := make(Document, len(existing)+1)
	for key, value := range existing {
		merged[key] = value
	}

	current := make(map[string]any, len(servers))
	switch value := merged[ServersKey].(type) {
	case nil:
	case map[string]any:
		for name, descriptor := range value {
			current[name] = descriptor
		}
	default:
		return nil, fmt.Errorf("existing %q value is %T, expected an object", ServersKey, value)
	}

	for name, descriptor := range servers {
		current[name] = map[string]any(descriptor)
	}
	merged[ServersKey] = current

	return merged, nil
}
