// Copyright 2026 Chainborn

package orchestrator

import (
	"encoding/base64"
	"sort"
	"strings"
)

// bindingSignature deterministically encodes binding data into a single
// order-independent, injection-safe token: entries sorted by key,
// "key=value" pairs joined with "|", then base64-encoded so neither a
// binding key nor value can introduce a stray ":" or "|" into the cache key.
func bindingSignature(bindingData map[string]string) string {
	keys := make([]string, 0, len(bindingData))
	for k := range bindingData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+bindingData[k])
	}

	return base64.StdEncoding.EncodeToString([]byte(strings.Join(pairs, "|")))
}

// cacheKey builds the orchestrator's cache key: productID, nonce,
// strictness, and the binding signature joined with ":".
func cacheKey(productID, nonce, strictness string, bindingData map[string]string) string {
	return strings.Join([]string{
		productID,
		nonce,
		strictness,
		bindingSignature(bindingData),
	}, ":")
}
