package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

// Office Open XML packages are zips of XML parts. Word text lives in
// <w:t> runs of the main document part; presentation text lives in <a:t>
// runs of each slide part. Regex extraction over the part XML tolerates the
// attribute soup real-world files carry on every element.
const (
	wordDefaultDocumentPath = "word/document.xml"
	slidePathPrefix         = "ppt/slides/slide"
	contentTypesPath        = "[Content_Types].xml"
	wordMainContentType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

var (
	wordTextRun  = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	slideTextRun = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)

	// The Override element in [Content_Types].xml may carry PartName and
	// ContentType in either order.
	wordPartByName = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(wordMainContentType) + `"`)
	wordPartByType = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(wordMainContentType) + `"[^>]+PartName="([^"]+)"`)
)

// extractWordXML extracts text from .docx bytes by collecting every <w:t>
// run in the main document part. The part path comes from
// [Content_Types].xml when present, since some producers write the body to
// a non-default part name.
func extractWordXML(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: not a zip: %w", err)
	}

	docPath := wordDocumentPath(zr)
	docXML, err := zipPart(zr, docPath)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	if docXML == nil {
		return "", fmt.Errorf("failed to open docx: %s not found", docPath)
	}

	var b strings.Builder
	for _, m := range wordTextRun.FindAllStringSubmatch(string(docXML), -1) {
		appendRun(&b, m[1])
	}
	return strings.TrimSpace(b.String()), nil
}

// extractSlidesXML extracts text from .pptx bytes by collecting every <a:t>
// run across all slide parts.
func extractSlidesXML(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open pptx: not a zip: %w", err)
	}

	var b strings.Builder
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, slidePathPrefix) || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		slideXML, err := readZipFile(f)
		if err != nil {
			return "", fmt.Errorf("failed to read slide %s: %w", f.Name, err)
		}
		for _, m := range slideTextRun.FindAllStringSubmatch(string(slideXML), -1) {
			appendRun(&b, m[1])
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// wordDocumentPath resolves the main document part from [Content_Types].xml,
// falling back to the conventional word/document.xml.
func wordDocumentPath(zr *zip.Reader) string {
	ct, err := zipPart(zr, contentTypesPath)
	if err != nil || ct == nil {
		return wordDefaultDocumentPath
	}
	for _, re := range []*regexp.Regexp{wordPartByName, wordPartByType} {
		if m := re.FindStringSubmatch(string(ct)); len(m) > 1 {
			return strings.TrimPrefix(m[1], "/")
		}
	}
	return wordDefaultDocumentPath
}

// zipPart returns the named file's bytes, or nil when the archive has no
// such file.
func zipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return readZipFile(f)
		}
	}
	return nil, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// appendRun adds one captured text run to the output. Runs are captured by
// regex, so entity references arrive escaped and need decoding here.
func appendRun(b *strings.Builder, text string) {
	text = strings.TrimSpace(html.UnescapeString(text))
	if text == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(text)
}
