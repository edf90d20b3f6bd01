package catalog

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefix for content-addressed catalog entries.
// Version suffix enables future algorithm migration.
const domainQuery = "mdx/query/v1"

// contentHash computes SHA-256 with domain separation over the entry
// name and query text.
// Format: SHA256(domain + 0x00 + name + 0x00 + mdx)
// The null separators prevent boundary ambiguity between the parts.
func contentHash(name, mdxText string) string {
	h := sha256.New()
	h.Write([]byte(domainQuery))
	h.Write([]byte{0x00})
	h.Write([]byte(name))
	h.Write([]byte{0x00})
	h.Write([]byte(mdxText))
	return hex.EncodeToString(h.Sum(nil))
}
