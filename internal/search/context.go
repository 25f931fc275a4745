package search

import (
	"fmt"
	"strings"
)

const (
	// maxContextChars bounds the assembled context handed to the
	// generator.
	maxContextChars = 2500

	blockSeparator = "\n\n"
)

// AssembleContext concatenates "[page N] content" blocks for the fused
// results, best first, separated by blank lines. Assembly is first-fit:
// a block that would push the total past the limit ends assembly even
// if a later, shorter block would still fit. Separators count against
// the limit, so the result never exceeds it.
func AssembleContext(ranked []RankedChunk, limit int) string {
	if limit <= 0 {
		limit = maxContextChars
	}

	var b strings.Builder
	total := 0
	for _, rc := range ranked {
		block := fmt.Sprintf("[page %d] %s", rc.Chunk.Metadata.Page, rc.Chunk.Content)
		need := len(block)
		if total > 0 {
			need += len(blockSeparator)
		}
		if total+need > limit {
			break
		}
		if total > 0 {
			b.WriteString(blockSeparator)
		}
		b.WriteString(block)
		total += need
	}
	return b.String()
}
