package e2e

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SupportedFileExtensions lists the formats the file ingestion tests cover.
// Plain-text formats round-trip bytes as written; the rest are built as
// minimal but structurally valid packages of their format.
var SupportedFileExtensions = []string{
	".txt",
	".md",
	".rst",
	".docx",
	".pptx",
	".odt",
	".odp",
	".ods",
	".xlsx",
}

// WriteMinimalFile writes content to path in the format implied by the
// path's extension.
func WriteMinimalFile(path, content string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return writeMinimalDocx(path, content)
	case ".pptx":
		return writeMinimalPptx(path, content)
	case ".odt", ".odp", ".ods":
		return writeMinimalOpenDocument(path, content)
	case ".xlsx":
		return writeMinimalXlsx(path, content)
	default:
		return os.WriteFile(path, []byte(content), 0o644)
	}
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// writeZip writes a zip archive at path with the given name-to-content
// entries, in map iteration order. Single-part fixtures only ever carry one
// entry, so ordering does not matter.
func writeZip(path string, parts map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return zw.Close()
}

// writeMinimalDocx writes a Word package containing a single paragraph.
// Only the main document part is included; readers fall back to the
// conventional part path when [Content_Types].xml is absent.
func writeMinimalDocx(path, content string) error {
	document := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>%s</w:t></w:r></w:p></w:body></w:document>`, xmlEscaper.Replace(content))
	return writeZip(path, map[string]string{"word/document.xml": document})
}

// writeMinimalPptx writes a presentation package with one slide carrying a
// single text run.
func writeMinimalPptx(path, content string) error {
	slide := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`, xmlEscaper.Replace(content))
	return writeZip(path, map[string]string{"ppt/slides/slide1.xml": slide})
}

// writeMinimalOpenDocument writes an OpenDocument package with the content
// in a single text:p element. Text documents, presentations, and
// spreadsheets all keep their body in content.xml, so one builder covers
// .odt, .odp, and .ods.
func writeMinimalOpenDocument(path, content string) error {
	body := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"><office:body><office:text><text:p>%s</text:p></office:text></office:body></office:document-content>`, xmlEscaper.Replace(content))
	return writeZip(path, map[string]string{"content.xml": body})
}

// writeMinimalXlsx writes a workbook with the content in cell A1 of the
// default sheet.
func writeMinimalXlsx(path, content string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetCellValue("Sheet1", "A1", content); err != nil {
		return fmt.Errorf("failed to set cell value: %w", err)
	}
	return f.SaveAs(path)
}
