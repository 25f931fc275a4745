package search

import (
	"sort"
)

// Fusion scoring constants. The primary methods carry equal weight;
// results tagged with the legacy method names fuse at reduced weight,
// and anything unrecognized falls back to the default.
const (
	weightLexical = 0.45
	weightVector  = 0.45
	weightBM25    = 0.40
	weightTFIDF   = 0.35
	weightDefault = 0.30

	qualityBoostFactor   = 0.2
	diversityBoostFactor = 0.15
	categoryBoost        = 0.1
)

func methodWeight(method string) float64 {
	switch method {
	case MethodLexical:
		return weightLexical
	case MethodVector:
		return weightVector
	case "bm25":
		return weightBM25
	case "tfidf":
		return weightTFIDF
	default:
		return weightDefault
	}
}

// fusionGroup accumulates every appearance of one chunk across the
// (query variant, method) searches.
type fusionGroup struct {
	result  SearchResult
	scores  []float64
	weights []float64
	methods map[string]bool
	quality []float64
	matched bool // some member's category equals the query category
}

// Fuse merges per-method results for one question into a single
// ranking. Results are grouped by chunk identity; each group scores a
// weighted mean of its member scores plus boosts for chunk quality,
// method diversity, and category agreement with the detected query
// category. Groups are deduplicated by identity, best first, and
// truncated to topK.
func Fuse(results []SearchResult, topK int, queryCategory string) []RankedChunk {
	if len(results) == 0 || topK <= 0 {
		return nil
	}

	groups := make(map[string]*fusionGroup)
	order := make([]string, 0, len(results))
	for _, res := range results {
		id := res.Chunk.ID
		g, ok := groups[id]
		if !ok {
			g = &fusionGroup{result: res, methods: make(map[string]bool)}
			groups[id] = g
			order = append(order, id)
		}
		g.scores = append(g.scores, res.Score)
		g.weights = append(g.weights, methodWeight(res.Method))
		g.methods[res.Method] = true
		g.quality = append(g.quality, res.Chunk.Quality)
		if res.Chunk.Category == queryCategory {
			g.matched = true
		}
	}

	ranked := make([]RankedChunk, 0, len(order))
	for _, id := range order {
		g := groups[id]

		weightedSum, totalWeight := 0.0, 0.0
		for i, s := range g.scores {
			weightedSum += s * g.weights[i]
			totalWeight += g.weights[i]
		}
		base := 0.0
		if totalWeight > 0 {
			base = weightedSum / totalWeight
		}

		qualitySum := 0.0
		for _, q := range g.quality {
			qualitySum += q
		}
		score := base +
			qualitySum/float64(len(g.quality))*qualityBoostFactor +
			float64(len(g.methods)-1)*diversityBoostFactor
		if g.matched {
			score += categoryBoost
		}

		methods := make([]string, 0, len(g.methods))
		for m := range g.methods {
			methods = append(methods, m)
		}
		sort.Strings(methods)

		ranked = append(ranked, RankedChunk{
			Chunk:      g.result.Chunk,
			FinalScore: score,
			Methods:    methods,
		})
	}

	// Descending by score; equal scores break by chunk quality, then
	// chunk ID, so the ranking is deterministic regardless of map
	// iteration.
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].FinalScore != ranked[b].FinalScore {
			return ranked[a].FinalScore > ranked[b].FinalScore
		}
		if ranked[a].Chunk.Quality != ranked[b].Chunk.Quality {
			return ranked[a].Chunk.Quality > ranked[b].Chunk.Quality
		}
		return ranked[a].Chunk.ID < ranked[b].Chunk.ID
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
