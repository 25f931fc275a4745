package corpus

import (
	"strings"
	"unicode"

	"github.com/roadwise/roadwise/internal/rules"
)

const (
	minChunkLen   = 80
	maxChunkLen   = 1000
	minAlphaRatio = 0.7
	minVocabHits  = 2
)

// keepChunk reports whether a raw passage clears the quality gate:
// usable length, mostly letters, and at least two domain-vocabulary
// hits. Filtering looks at the raw text, before normalization.
func keepChunk(content string, r *rules.Rules) bool {
	n, alpha := 0, 0
	for _, c := range content {
		n++
		if unicode.IsLetter(c) {
			alpha++
		}
	}
	if n < minChunkLen || n > maxChunkLen {
		return false
	}
	if float64(alpha)/float64(n) < minAlphaRatio {
		return false
	}

	lower := strings.ToLower(content)
	hits := 0
	for _, term := range r.DomainVocabulary {
		if strings.Contains(lower, term) {
			hits++
			if hits >= minVocabHits {
				return true
			}
		}
	}
	return false
}
