package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// odfContentPath is the main content part of every OpenDocument package:
// .odt text documents, .odp presentations, and .ods spreadsheets all keep
// their body in content.xml.
const odfContentPath = "content.xml"

// odfTextElement matches the leaf text elements of the OpenDocument text
// model. A single alternation keeps the runs in document order, unlike
// collecting per element type.
var odfTextElement = regexp.MustCompile(`<text:(?:p|h|span)[^>]*>([^<]*)</text:(?:p|h|span)>`)

// extractOpenDocument extracts text from OpenDocument bytes by collecting
// text:p, text:h, and text:span runs from content.xml.
func extractOpenDocument(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open opendocument file: not a zip: %w", err)
	}

	contentXML, err := zipPart(zr, odfContentPath)
	if err != nil {
		return "", fmt.Errorf("failed to read opendocument content: %w", err)
	}
	if contentXML == nil {
		return "", fmt.Errorf("failed to open opendocument file: %s not found", odfContentPath)
	}

	var b strings.Builder
	for _, m := range odfTextElement.FindAllStringSubmatch(string(contentXML), -1) {
		appendRun(&b, m[1])
	}
	return strings.TrimSpace(b.String()), nil
}
