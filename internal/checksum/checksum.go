// Package checksum computes the stable content digests used to detect
// local/remote divergence without transferring full page bodies.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Canonical digests a header mapping plus content. Keys are sorted before
// serialization, so the digest is invariant under header insertion order.
// Keys and values are length-prefixed so the serialization is unambiguous
// even when a value contains newlines or delimiter-like text.
func Canonical(headers map[string]string, content string) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := headers[k]
		fmt.Fprintf(&b, "%d:%s%d:%s", len(k), k, len(v), v)
	}
	b.WriteString("\n")
	b.WriteString(content)
	return Sum([]byte(b.String()))
}
