package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
)

// CalculateSHA256 returns the digest of content as "sha256:<hex>".
func CalculateSHA256(content []byte) string {
	sum := sha256.Sum256(content)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// File returns the digest of the file at path. A missing file yields ""
// and no error.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return CalculateSHA256(data), nil
}
