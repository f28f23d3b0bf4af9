// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/goccy/go-json"
)

// GenerateKey creates a cache key from a namespace and a params value.
// params must already be normalized (typed fields, defaults applied) so that
// logically identical queries encode identically; struct fields marshal in
// declaration order, which keeps the encoding stable.
func GenerateKey(namespace string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", namespace, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", namespace, hash[:16])
}
