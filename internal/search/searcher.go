package search

import (
	"context"
	"sort"

	"github.com/roadwise/roadwise/internal/corpus"
	"github.com/roadwise/roadwise/internal/index"
	"github.com/roadwise/roadwise/internal/rules"
)

// Category boost factors applied to score-vector positions inside the
// hinted partition; positions outside it are untouched.
const (
	lexicalBoost = 1.3
	vectorBoost  = 1.2
)

// Searcher is one retrieval method over the shared index.
type Searcher interface {
	// Search returns up to topK candidates for one query variant,
	// with the category hint's partition boosted.
	Search(ctx context.Context, query string, topK int, categoryHint string) ([]SearchResult, error)
	Method() string
}

// lexicalSearcher scores with the BM25 index.
type lexicalSearcher struct {
	ix *index.Index
}

// vectorSearcher scores with the TF-IDF model.
type vectorSearcher struct {
	ix    *index.Index
	rules *rules.Rules
}

// NewLexicalSearcher returns the BM25-backed searcher.
func NewLexicalSearcher(ix *index.Index) Searcher {
	return &lexicalSearcher{ix: ix}
}

// NewVectorSearcher returns the TF-IDF-backed searcher.
func NewVectorSearcher(ix *index.Index, r *rules.Rules) Searcher {
	return &vectorSearcher{ix: ix, rules: r}
}

func (s *lexicalSearcher) Method() string { return MethodLexical }

func (s *lexicalSearcher) Search(ctx context.Context, query string, topK int, categoryHint string) ([]SearchResult, error) {
	scores, err := s.ix.Lexical.Scores(ctx, query)
	if err != nil {
		return nil, err
	}
	return rank(scores, s.ix.Chunks, s.ix.Partition, categoryHint, lexicalBoost, topK, MethodLexical), nil
}

func (s *vectorSearcher) Method() string { return MethodVector }

func (s *vectorSearcher) Search(ctx context.Context, query string, topK int, categoryHint string) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scores := s.ix.TFIDF.Scores(query, s.rules)
	return rank(scores, s.ix.Chunks, s.ix.Partition, categoryHint, vectorBoost, topK, MethodVector), nil
}

// rank boosts the hinted partition, over-fetches twice topK to widen
// the pool fusion sees, drops non-positive scores, and truncates to
// topK.
func rank(scores []float64, chunks []corpus.Chunk, partition *index.Partition, categoryHint string, boost float64, topK int, method string) []SearchResult {
	boosted := make([]float64, len(scores))
	copy(boosted, scores)
	// The general category is the absence of a detected category, not a
	// preference for uncategorized chunks; it never boosts.
	if categoryHint != rules.CategoryGeneral {
		for _, pos := range partition.Positions(categoryHint) {
			if pos < len(boosted) {
				boosted[pos] *= boost
			}
		}
	}

	order := make([]int, len(boosted))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return boosted[order[a]] > boosted[order[b]]
	})

	if limit := 2 * topK; len(order) > limit {
		order = order[:limit]
	}

	results := make([]SearchResult, 0, topK)
	for _, pos := range order {
		if boosted[pos] <= 0 {
			continue
		}
		results = append(results, SearchResult{
			Chunk:  chunks[pos],
			Score:  boosted[pos],
			Method: method,
		})
		if len(results) == topK {
			break
		}
	}
	return results
}
