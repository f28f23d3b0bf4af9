// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// dotEnvFiles are read in order before configuration is loaded. Variables
// already set in the environment win; a missing file is not an error.
var dotEnvFiles = []string{".env.local", ".env"}

// loadDotEnv returns the files that were loaded. It runs before logging is
// configured, so the caller logs the result.
func loadDotEnv() ([]string, error) {
	var loaded []string
	for _, name := range dotEnvFiles {
		err := godotenv.Load(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return loaded, err
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}
