// Package cli provides output formatting for the kotaeru command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/kotaeru/internal/models"
	"github.com/hyperjump/kotaeru/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// snippetLength bounds how much chunk text a result line shows.
const snippetLength = 200

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other tools.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms (%s mode)\n\n",
		response.Total, response.QueryTime, response.Mode)
	for i, result := range response.Results {
		writeOneResult(w, i+1, result)
	}
}

func writeOneResult(w io.Writer, rank int, result *models.ScoredChunk) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Rank: %d | Score: %.4f (Keyword: %.4f, Semantic: %.4f)\n",
		rank, result.Score, result.KeywordScore, result.SemanticScore)
	fmt.Fprintf(w, "Document: %s (chunk %d)\n", result.DocumentID, result.Ordinal)
	fmt.Fprintf(w, "\n%s\n", utils.Truncate(result.Text, snippetLength))
	fmt.Fprintln(w)
}
