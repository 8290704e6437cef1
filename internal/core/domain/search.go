package domain

// DefaultTopK is the number of results returned when the caller does not say.
const DefaultTopK = 10

// SearchOptions configures a search query.
type SearchOptions struct {
	// URL restricts the search to chunks of a single page when set.
	URL string

	// TopK is the maximum number of results (default 10).
	TopK int
}

// ScoredCandidate is a retrieved chunk after scoring.
type ScoredCandidate struct {
	ChunkText  string
	URL        string
	ChunkIndex int

	// SemanticScore is the raw similarity from the vector index.
	// Nil under the keyword-only strategy.
	SemanticScore *float64

	RelevanceScore float64
	Reason         string
}

// SearchResult is one entry of the final ranked list.
type SearchResult struct {
	ChunkText      string   `json:"chunk_text"`
	URL            string   `json:"url"`
	ChunkIndex     int      `json:"chunk_index"`
	RelevanceScore float64  `json:"relevance_score"`
	ScoreReason    string   `json:"score_reason"`
	SemanticScore  *float64 `json:"semantic_score,omitempty"`
}

// Result projects a candidate onto the public result shape.
func (c ScoredCandidate) Result() SearchResult {
	return SearchResult{
		ChunkText:      c.ChunkText,
		URL:            c.URL,
		ChunkIndex:     c.ChunkIndex,
		RelevanceScore: c.RelevanceScore,
		ScoreReason:    c.Reason,
		SemanticScore:  c.SemanticScore,
	}
}
