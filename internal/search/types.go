// Package search runs the full question pipeline: query expansion,
// category detection, concurrent per-method retrieval, score fusion,
// context assembly, and answer generation with a degraded fallback.
package search

import (
	"time"

	"github.com/roadwise/roadwise/internal/corpus"
)

// Method tags identify which index produced a search result.
const (
	MethodLexical = "lexical"
	MethodVector  = "vector"
)

// SearchResult is one candidate from a single (query variant, method)
// search, carrying the boosted score it earned there.
type SearchResult struct {
	Chunk  corpus.Chunk
	Score  float64
	Method string
}

// RankedChunk is one fused, deduplicated result.
type RankedChunk struct {
	Chunk      corpus.Chunk
	FinalScore float64
	Methods    []string // sorted set of contributing methods
}

// QueryResult is the full outcome of one question.
type QueryResult struct {
	Question     string        `json:"question"`
	Answer       string        `json:"answer"`
	Context      string        `json:"context"`
	Chunks       []RankedChunk `json:"-"`
	CategoryHint string        `json:"category_hint"`
	Degraded     bool          `json:"degraded"`
	CacheHit     bool          `json:"cache_hit"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Pages returns the handbook pages of the top-ranked chunks, capped at
// three, for the prompt's source line.
func (r *QueryResult) Pages() []int {
	n := len(r.Chunks)
	if n > 3 {
		n = 3
	}
	pages := make([]int, 0, n)
	for _, rc := range r.Chunks[:n] {
		pages = append(pages, rc.Chunk.Metadata.Page)
	}
	return pages
}
