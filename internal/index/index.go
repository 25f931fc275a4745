package index

import (
	"log/slog"
	"time"

	"github.com/roadwise/roadwise/internal/corpus"
	"github.com/roadwise/roadwise/internal/rules"
)

// Index bundles everything built over one prepared corpus: the BM25
// index, the TF-IDF model, and the category partition. Chunks keep
// their load order; score vectors from both models are aligned with
// Chunks by position.
type Index struct {
	Chunks    []corpus.Chunk
	Lexical   *LexicalIndex
	TFIDF     *TFIDF
	Partition *Partition
}

// Build constructs all retrieval structures for the prepared chunks.
// Any failure is fatal; a partially built index cannot serve queries.
func Build(chunks []corpus.Chunk, r *rules.Rules, logger *slog.Logger) (*Index, error) {
	start := time.Now()

	ids := make([]string, len(chunks))
	contents := make([]string, len(chunks))
	categories := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
		contents[i] = c.Content
		categories[i] = c.Category
	}

	lexical, err := NewLexicalIndex(ids, contents)
	if err != nil {
		return nil, err
	}

	tfidf, err := FitTFIDF(contents, r)
	if err != nil {
		_ = lexical.Close()
		return nil, err
	}

	partition := NewPartition(categories)

	logger.Info("index built",
		"chunks", len(chunks),
		"vocabulary", tfidf.VocabularySize(),
		"categories", partition.Categories(),
		"elapsed", time.Since(start))

	return &Index{
		Chunks:    chunks,
		Lexical:   lexical,
		TFIDF:     tfidf,
		Partition: partition,
	}, nil
}

// Close releases index resources.
func (ix *Index) Close() error {
	if ix.Lexical != nil {
		return ix.Lexical.Close()
	}
	return nil
}
