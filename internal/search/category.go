package search

import (
	"strings"

	"github.com/roadwise/roadwise/internal/rules"
)

// DetectCategory scores each query-category table by keyword substring
// hits in the lowercased question and returns the highest scorer; any
// nonzero count qualifies. Ties break alphabetically so detection does
// not depend on table order. Questions matching nothing are general.
func DetectCategory(question string, r *rules.Rules) string {
	lower := strings.ToLower(question)

	best := rules.CategoryGeneral
	bestHits := 0
	for _, table := range r.QueryCategories {
		hits := 0
		for _, kw := range table.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		if hits > bestHits || (hits == bestHits && table.Name < best) {
			best = table.Name
			bestHits = hits
		}
	}
	return best
}
