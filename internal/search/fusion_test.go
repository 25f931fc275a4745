package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwise/roadwise/internal/corpus"
)

func chunk(id, content, category string, quality float64, page int) corpus.Chunk {
	return corpus.Chunk{
		ID:       id,
		Content:  content,
		Category: category,
		Quality:  quality,
		Metadata: corpus.Metadata{Page: page},
	}
}

func TestFuseGroupsByIdentity(t *testing.T) {
	// Given the same chunk surfaced by both methods and another by one
	a := chunk("a", "speed limit text", "speed_limits", 0.8, 10)
	b := chunk("b", "licensing text", "licensing", 0.8, 20)
	results := []SearchResult{
		{Chunk: a, Score: 2.0, Method: MethodLexical},
		{Chunk: a, Score: 0.5, Method: MethodVector},
		{Chunk: b, Score: 2.0, Method: MethodLexical},
	}

	// When fused
	ranked := Fuse(results, 5, "general")

	// Then the doubly-found chunk collapses to one entry and wins on
	// the diversity boost
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].Chunk.ID)
	assert.Equal(t, []string{MethodLexical, MethodVector}, ranked[0].Methods)
	assert.Equal(t, []string{MethodLexical}, ranked[1].Methods)
}

func TestFuseWeightedMean(t *testing.T) {
	a := chunk("a", "t", "general", 0.0, 1)
	results := []SearchResult{
		{Chunk: a, Score: 1.0, Method: MethodLexical},
		{Chunk: a, Score: 3.0, Method: MethodVector},
	}

	ranked := Fuse(results, 1, "none")
	require.Len(t, ranked, 1)

	// Equal weights: base = (1+3)/2 = 2; diversity boost for two
	// methods = 0.15; quality 0 contributes nothing.
	assert.InDelta(t, 2.0+0.15, ranked[0].FinalScore, 1e-9)
}

func TestFuseQualityBoostIsMonotonic(t *testing.T) {
	lo := Fuse([]SearchResult{{Chunk: chunk("a", "t", "general", 0.2, 1), Score: 1, Method: MethodLexical}}, 1, "none")
	hi := Fuse([]SearchResult{{Chunk: chunk("a", "t", "general", 0.9, 1), Score: 1, Method: MethodLexical}}, 1, "none")

	require.Len(t, lo, 1)
	require.Len(t, hi, 1)
	assert.Greater(t, hi[0].FinalScore, lo[0].FinalScore)
	assert.InDelta(t, (0.9-0.2)*qualityBoostFactor, hi[0].FinalScore-lo[0].FinalScore, 1e-9)
}

func TestFuseCategoryBoost(t *testing.T) {
	match := Fuse([]SearchResult{{Chunk: chunk("a", "t", "speed_limits", 0.5, 1), Score: 1, Method: MethodLexical}}, 1, "speed_limits")
	miss := Fuse([]SearchResult{{Chunk: chunk("a", "t", "licensing", 0.5, 1), Score: 1, Method: MethodLexical}}, 1, "speed_limits")

	assert.InDelta(t, categoryBoost, match[0].FinalScore-miss[0].FinalScore, 1e-9)
}

func TestFuseUnknownMethodWeight(t *testing.T) {
	a := chunk("a", "t", "general", 0, 1)
	primary := Fuse([]SearchResult{{Chunk: a, Score: 1, Method: MethodLexical}}, 1, "none")
	legacy := Fuse([]SearchResult{{Chunk: a, Score: 1, Method: "bm25"}}, 1, "none")
	unknown := Fuse([]SearchResult{{Chunk: a, Score: 1, Method: "experimental"}}, 1, "none")

	// A single-member weighted mean is the raw score whatever the
	// weight, so all bases agree; weights only matter in mixed groups.
	assert.InDelta(t, primary[0].FinalScore, legacy[0].FinalScore, 1e-9)
	assert.InDelta(t, primary[0].FinalScore, unknown[0].FinalScore, 1e-9)

	mixed := Fuse([]SearchResult{
		{Chunk: a, Score: 1, Method: MethodLexical},
		{Chunk: a, Score: 0, Method: "tfidf"},
	}, 1, "none")
	// base = (1*0.45 + 0*0.35) / 0.80
	assert.InDelta(t, 0.45/0.80+diversityBoostFactor, mixed[0].FinalScore, 1e-9)
}

func TestFuseTruncatesAndSorts(t *testing.T) {
	var results []SearchResult
	for i, id := range []string{"a", "b", "c", "d"} {
		results = append(results, SearchResult{
			Chunk:  chunk(id, "t", "general", 0, 1),
			Score:  float64(i + 1),
			Method: MethodLexical,
		})
	}

	ranked := Fuse(results, 2, "none")
	require.Len(t, ranked, 2)
	assert.Equal(t, "d", ranked[0].Chunk.ID)
	assert.Equal(t, "c", ranked[1].Chunk.ID)
}

func TestFuseDeterministicTieBreak(t *testing.T) {
	results := []SearchResult{
		{Chunk: chunk("b", "t", "general", 0.5, 1), Score: 1, Method: MethodLexical},
		{Chunk: chunk("a", "t", "general", 0.5, 1), Score: 1, Method: MethodLexical},
	}

	for i := 0; i < 10; i++ {
		ranked := Fuse(results, 2, "none")
		require.Len(t, ranked, 2)
		assert.Equal(t, "a", ranked[0].Chunk.ID)
	}
}

func TestFuseEmpty(t *testing.T) {
	assert.Nil(t, Fuse(nil, 5, "general"))
	assert.Nil(t, Fuse([]SearchResult{{Chunk: chunk("a", "t", "general", 0, 1), Score: 1, Method: MethodLexical}}, 0, "general"))
}
