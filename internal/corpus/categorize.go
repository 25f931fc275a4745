package corpus

import (
	"strings"

	"github.com/roadwise/roadwise/internal/rules"
)

// categorize assigns a chunk to the category with the most keyword hits
// in its normalized content, requiring at least two hits to win. Ties
// break alphabetically so assignment is independent of table order.
// Chunks matching no category land in the general bucket.
func categorize(content string, r *rules.Rules) string {
	lower := strings.ToLower(content)

	best := rules.CategoryGeneral
	bestHits := 0
	for _, table := range r.ChunkCategories {
		hits := 0
		for _, kw := range table.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits < minVocabHits {
			continue
		}
		if hits > bestHits || (hits == bestHits && table.Name < best) {
			best = table.Name
			bestHits = hits
		}
	}
	return best
}
