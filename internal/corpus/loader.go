package corpus

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"

	"github.com/google/uuid"

	roaderr "github.com/roadwise/roadwise/internal/errors"
	"github.com/roadwise/roadwise/internal/rules"
)

// Load reads the corpus document at path and runs the full preparation
// pipeline: quality filter, normalization, quality scoring, and
// category assignment. Chunks come back sorted by quality, best first,
// each with a fresh opaque ID. An empty result is an error: a pipeline
// with nothing to search is misconfigured, not degraded.
func Load(path string, r *rules.Rules, logger *slog.Logger) ([]Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, roaderr.New(roaderr.ErrCodeCorpusNotFound, "corpus file not found: "+path, err)
		}
		return nil, roaderr.LoadError("read corpus: "+path, err)
	}
	return Prepare(data, r, logger)
}

// Prepare runs the preparation pipeline on a raw corpus document.
func Prepare(data []byte, r *rules.Rules, logger *slog.Logger) ([]Chunk, error) {
	var raw []rawChunk
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, roaderr.LoadError("corpus is not a JSON passage array", err)
	}

	chunks := make([]Chunk, 0, len(raw))
	for _, rc := range raw {
		if !keepChunk(rc.Content, r) {
			continue
		}
		content := enhance(rc.Content, r)
		chunks = append(chunks, Chunk{
			ID:       uuid.NewString(),
			Original: rc.Content,
			Content:  content,
			Metadata: rc.Metadata,
			Quality:  qualityScore(content, r),
			Category: categorize(content, r),
		})
	}

	if len(chunks) == 0 {
		return nil, roaderr.New(roaderr.ErrCodeCorpusEmpty,
			"no passages survived the quality filter", nil)
	}

	// Best first. Stable, so equal scores keep document order.
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Quality > chunks[j].Quality
	})

	logger.Info("corpus prepared",
		"raw", len(raw),
		"kept", len(chunks),
		"dropped", len(raw)-len(chunks))

	return chunks, nil
}
