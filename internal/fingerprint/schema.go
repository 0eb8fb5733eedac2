package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// ComputeSchemaSignature derives a deterministic, order-independent
// signature from a table's column names: sort lexicographically, join with
// "|", hash, keep the first 16 hex characters.
func ComputeSchemaSignature(columns []string) string {
	sorted := make([]string, len(columns))
	copy(sorted, columns)
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(strings.Join(sorted, "|")))
	return hex.EncodeToString(sum[:])[:16]
}
