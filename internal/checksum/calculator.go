package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// Digest accumulates a SHA-256 over everything written to it.
// Use it with io.MultiWriter to hash a stream while it is copied.
type Digest struct {
	h hash.Hash
}

// NewDigest returns an empty Digest.
func NewDigest() *Digest {
	return &Digest{h: sha256.New()}
}

func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum returns the lowercase hex digest of the bytes written so far.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// Bytes returns the hex SHA-256 of content.
func Bytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// File returns the hex SHA-256 of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d := NewDigest()
	if _, err := io.Copy(d, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return d.Sum(), nil
}
