package search

import (
	"strings"

	"github.com/roadwise/roadwise/internal/rules"
)

// maxExpansionTerms caps how many related terms one expansion entry
// contributes to the second query variant.
const maxExpansionTerms = 3

// ExpandQuery returns the query variants searched for a question: the
// question itself, plus at most one expanded variant built from the
// first rules-table phrase found in the lowercased question. The
// original question is always first.
func ExpandQuery(question string, r *rules.Rules) []string {
	variants := []string{question}

	lower := strings.ToLower(question)
	for _, e := range r.Expansions {
		if !strings.Contains(lower, e.Phrase) {
			continue
		}
		terms := e.Terms
		if len(terms) > maxExpansionTerms {
			terms = terms[:maxExpansionTerms]
		}
		variants = append(variants, question+" "+strings.Join(terms, " "))
		break
	}
	return variants
}
