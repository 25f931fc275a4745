package corpus

import (
	"strings"

	"github.com/roadwise/roadwise/internal/rules"
)

// enhance cleans a surviving passage and applies the ordered
// normalization rules: license-class spellings, unit spacing, currency
// spacing, and canonical domain phrases.
func enhance(content string, r *rules.Rules) string {
	content = strings.TrimSpace(strings.ReplaceAll(content, "\\", ""))
	for i := range r.Normalizations {
		content = r.Normalizations[i].Apply(content)
	}
	return content
}
