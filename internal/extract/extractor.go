// Package extract turns document files into plain text for chunking and
// indexing.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content, dispatching
// on the file extension.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension,
// which includes the leading dot (e.g. ".pdf"). Unknown extensions are
// treated as plain text so arbitrary uploads still index something useful.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractWordXML(content)
	case ".pptx":
		return extractSlidesXML(content)
	case ".odt", ".odp", ".ods":
		return extractOpenDocument(content)
	case ".xlsx":
		return extractWorkbook(content)
	default:
		return extractPlain(content)
	}
}
