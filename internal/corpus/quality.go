package corpus

import (
	"math"
	"strings"

	"github.com/roadwise/roadwise/internal/rules"
)

const (
	idealLength     = 300
	densityCap      = 5
	idealWordsPerSn = 20

	lengthWeight      = 0.3
	densityWeight     = 0.4
	readabilityWeight = 0.3
)

// qualityScore rates normalized content in [0, 1] from three signals:
// closeness to an ideal length, density of important domain terms, and
// sentence-length readability. Passages with no sentence terminators
// get no readability credit.
func qualityScore(content string, r *rules.Rules) float64 {
	n := len([]rune(content))

	lengthScore := 1.0 - math.Abs(float64(n)-idealLength)/idealLength
	if lengthScore < 0 {
		lengthScore = 0
	}
	score := lengthScore * lengthWeight

	lower := strings.ToLower(content)
	density := 0
	for _, term := range r.ImportantTerms {
		if strings.Contains(lower, term) {
			density++
		}
	}
	score += math.Min(float64(density)/densityCap, 1.0) * densityWeight

	sentences := strings.Count(content, ".") + strings.Count(content, "!") + strings.Count(content, "?")
	if sentences > 0 {
		words := len(strings.Fields(content))
		avg := float64(words) / float64(sentences)
		readability := 1.0 / (1.0 + math.Abs(avg-idealWordsPerSn)/idealWordsPerSn)
		score += readability * readabilityWeight
	}

	return math.Min(score, 1.0)
}
