package e2e

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/kotaeru/internal/extract"
)

func TestWriteMinimalFile_ExtractsContent(t *testing.T) {
	const content = "the quarterly backup restore drill restores production snapshots"
	extractor := extract.NewExtractor()

	for _, ext := range SupportedFileExtensions {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fixture"+ext)
			if err := WriteMinimalFile(path, content); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}
			text, err := extractor.Extract(path)
			if err != nil {
				t.Fatalf("failed to extract fixture: %v", err)
			}
			if !strings.Contains(text, content) {
				t.Errorf("extracted text %q does not contain %q", text, content)
			}
		})
	}
}

func TestWriteMinimalFile_EscapesMarkup(t *testing.T) {
	// Markup characters round-trip: escaped on write, decoded on extract.
	const content = "thresholds use a < b & c comparisons"
	extractor := extract.NewExtractor()

	for _, ext := range []string{".docx", ".pptx", ".odt", ".odp", ".ods"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fixture"+ext)
			if err := WriteMinimalFile(path, content); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}
			text, err := extractor.Extract(path)
			if err != nil {
				t.Fatalf("failed to extract fixture: %v", err)
			}
			if !strings.Contains(text, content) {
				t.Errorf("extracted text %q does not contain %q", text, content)
			}
		})
	}
}
