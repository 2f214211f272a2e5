// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// keySeparator joins the namespace and parts before hashing. The ASCII unit
// separator never appears in sport names, team names, ranks, or ISO dates,
// so ("a","bc") and ("ab","c") can never produce the same preimage.
const keySeparator = "\x1f"

// DeriveKey builds a deterministic fixed-width cache key from a namespace
// and an ordered list of request-identifying strings. The namespace
// partitions the key space per endpoint family so identical parameter
// tuples from different endpoints never collide.
//
// The digest only needs to avoid accidental collisions between distinct
// logical requests; sha256 truncated to 16 bytes is plenty and keeps keys
// stable across process restarts.
func DeriveKey(namespace string, parts ...string) string {
	var b strings.Builder
	b.WriteString(namespace)
	for _, part := range parts {
		b.WriteString(keySeparator)
		b.WriteString(part)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}
