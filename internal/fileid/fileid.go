// Package fileid derives stable document identities for files ingested from
// the filesystem, so re-indexing the same path updates in place instead of
// accumulating duplicates.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

const prefix = "file:"

// FileDocID returns a deterministic document ID for a file path. The path is
// cleaned first, so lexically equivalent spellings map to the same ID.
func FileDocID(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return prefix + hex.EncodeToString(sum[:])
}

// Title derives a document title from a file path: the base name without its
// extension.
func Title(path string) string {
	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if title == "" {
		return base
	}
	return title
}
