package indexer

import (
	"strings"
	"unicode"
)

// Normalize prepares extracted document text for chunking: line endings
// become \n, runs of spaces and tabs collapse to a single space, and runs of
// blank lines collapse to one paragraph break. Paragraph structure is kept
// because chunk windows read better when they do not cross walls of blank
// lines.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	blankRun := 0
	for _, line := range strings.Split(text, "\n") {
		line = collapseSpaces(line)
		if line == "" {
			blankRun++
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
			if blankRun > 0 {
				b.WriteByte('\n')
			}
		}
		blankRun = 0
		b.WriteString(line)
	}
	return b.String()
}

func collapseSpaces(s string) string {
	var b strings.Builder
	wasSpace := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteByte(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}
