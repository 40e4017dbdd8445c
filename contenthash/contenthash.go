// Package contenthash derives stable cache keys from uploaded video bytes.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// BlockSize is the read size used while hashing.
const BlockSize = 8192

// Cache key namespaces.
const (
	NamespaceTranscript = "transcript"
	NamespaceSummary    = "summary"
)

// Hash is the lowercase hex SHA-256 of a file's full contents.
type Hash string

// String returns the hex digest.
func (h Hash) String() string { return string(h) }

// Key returns "<namespace>:<hash>".
func (h Hash) Key(namespace string) string {
	return namespace + ":" + string(h)
}

// Short returns the first 12 hex characters for log lines.
func (h Hash) Short() string {
	if len(h) < 12 {
		return string(h)
	}
	return string(h[:12])
}

// Sum hashes everything r yields, reading BlockSize bytes at a time.
func Sum(r io.Reader) (Hash, error) {
	h := sha256.New()
	buf := make([]byte, BlockSize)
	if _, err := io.CopyBuffer(h, onlyReader{r}, buf); err != nil {
		return "", fmt.Errorf("contenthash: read: %w", err)
	}
	return Hash(hex.EncodeToString(h.Sum(nil))), nil
}

// SumFile opens path and hashes its contents.
func SumFile(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("contenthash: open %s: %w", path, err)
	}
	defer f.Close()
	return Sum(f)
}

// onlyReader hides WriterTo so io.CopyBuffer uses the fixed buffer.
type onlyReader struct{ io.Reader }
