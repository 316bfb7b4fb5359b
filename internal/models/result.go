package models

// ScoredChunk is a retrieval hit: a stored chunk plus its similarity score.
// For hybrid search, KeywordScore and SemanticScore hold the per-leg scores
// that were fused into Score.
type ScoredChunk struct {
	Key           string  `json:"key"`
	DocumentID    string  `json:"document_id"`
	Ordinal       int     `json:"ordinal"`
	Text          string  `json:"text"`
	Score         float64 `json:"score"`
	KeywordScore  float64 `json:"keyword_score,omitempty"`
	SemanticScore float64 `json:"semantic_score,omitempty"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Query     string         `json:"query"`
	Mode      string         `json:"mode"`
	Results   []*ScoredChunk `json:"results"`
	Total     int            `json:"total"`
	QueryTime int64          `json:"query_time_ms"`
}
