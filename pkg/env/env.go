// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package env provides an interface for reading environment variables,
// allowing injection of a fake reader in tests.
package env

import "os"

// Reader reads environment variables.
type Reader interface {
	// Getenv retrieves the value of the environment variable named by the key.
	Getenv(key string) string
}

// OSReader reads environment variables from the process environment.
type OSReader struct{}

// Getenv retrieves the value of the environment variable named by the key.
func (*OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// MapReader reads environment variables from a fixed map. Intended for tests.
type MapReader map[string]string

// Getenv retrieves the value of the environment variable named by the key.
func (m MapReader) Getenv(key string) string {
	return m[key]
}
