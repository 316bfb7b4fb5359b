package models

import "fmt"

// Search modes supported by the engine.
const (
	ModeHybrid   = "hybrid"
	ModeSemantic = "semantic"
	ModeKeyword  = "keyword"
)

// SearchRequest is a search invocation with optional tuning fields.
type SearchRequest struct {
	Query    string  `json:"query"`
	K        int     `json:"k,omitempty"`
	Mode     string  `json:"mode,omitempty"`
	MinScore float64 `json:"min_score,omitempty"`
}

// Validate checks required fields and normalizes defaults. K left at zero
// means "use the default"; a negative K is rejected.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if r.K < 0 {
		return fmt.Errorf("k must be positive, got %d", r.K)
	}
	if r.K == 0 {
		r.K = 3
	}
	if r.K > 100 {
		r.K = 100
	}
	switch r.Mode {
	case "":
		r.Mode = ModeHybrid
	case ModeHybrid, ModeSemantic, ModeKeyword:
	default:
		return fmt.Errorf("unknown search mode %q", r.Mode)
	}
	return nil
}
