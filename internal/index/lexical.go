package index

import (
	"context"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
	bindex "github.com/blevesearch/bleve_index_api"

	roaderr "github.com/roadwise/roadwise/internal/errors"
)

const (
	// handbookTokenizerName is the registry name of the whitespace
	// tokenizer used for handbook prose.
	handbookTokenizerName = "handbook_tokenizer"

	// handbookAnalyzerName is the registry name of the analyzer
	// applied to indexed content and queries.
	handbookAnalyzerName = "handbook_analyzer"
)

func init() {
	_ = registry.RegisterTokenizer(handbookTokenizerName, handbookTokenizerConstructor)
}

// LexicalIndex wraps an in-memory bleve index scored with BM25. Every
// query is answered with a full score vector over the corpus so fusion
// can compare methods position by position.
type LexicalIndex struct {
	mu    sync.RWMutex
	index bleve.Index
	pos   map[string]int // doc ID -> corpus position
	size  int
}

type lexicalDoc struct {
	Content string `json:"content"`
}

// NewLexicalIndex builds an in-memory BM25 index over the documents.
// ids[i] identifies contents[i]; positions in returned score vectors
// follow the same order.
func NewLexicalIndex(ids []string, contents []string) (*LexicalIndex, error) {
	if len(ids) != len(contents) {
		return nil, roaderr.IndexError("id and content counts differ", nil)
	}
	if len(ids) == 0 {
		return nil, roaderr.IndexError("nothing to index", nil)
	}

	imap, err := lexicalMapping()
	if err != nil {
		return nil, roaderr.IndexError("build index mapping", err)
	}

	idx, err := bleve.NewMemOnly(imap)
	if err != nil {
		return nil, roaderr.IndexError("create in-memory index", err)
	}

	batch := idx.NewBatch()
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if err := batch.Index(id, lexicalDoc{Content: contents[i]}); err != nil {
			_ = idx.Close()
			return nil, roaderr.IndexError("index document", err)
		}
		pos[id] = i
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, roaderr.IndexError("commit index batch", err)
	}

	return &LexicalIndex{index: idx, pos: pos, size: len(ids)}, nil
}

func lexicalMapping() (*mapping.IndexMappingImpl, error) {
	imap := bleve.NewIndexMapping()
	err := imap.AddCustomAnalyzer(handbookAnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     handbookTokenizerName,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}
	imap.DefaultAnalyzer = handbookAnalyzerName
	imap.ScoringModel = bindex.BM25Scoring
	return imap, nil
}

// Scores returns one BM25 score per corpus position for the query.
// Documents the query does not match score zero. An empty query
// scores everything zero.
func (l *LexicalIndex) Scores(ctx context.Context, query string) ([]float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	scores := make([]float64, l.size)
	if strings.TrimSpace(query) == "" {
		return scores, nil
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("content")

	req := bleve.NewSearchRequest(matchQuery)
	req.Size = l.size

	result, err := l.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, roaderr.Wrap(roaderr.ErrCodeSearchFailed, err)
	}

	for _, hit := range result.Hits {
		if p, ok := l.pos[hit.ID]; ok {
			scores[p] = hit.Score
		}
	}
	return scores, nil
}

// Size returns the number of indexed documents.
func (l *LexicalIndex) Size() int {
	return l.size
}

// Close releases the underlying index.
func (l *LexicalIndex) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index == nil {
		return nil
	}
	err := l.index.Close()
	l.index = nil
	return err
}

func handbookTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return &handbookTokenizer{}, nil
}

// handbookTokenizer splits on whitespace and drops tokens shorter than
// three characters, mirroring the analysis applied on the query side.
type handbookTokenizer struct{}

func (t *handbookTokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)

	result := make(analysis.TokenStream, 0, 64)
	pos := 1
	start := -1
	runeLen := 0

	emit := func(end int) {
		if start < 0 {
			return
		}
		if runeLen >= minTokenLen {
			result = append(result, &analysis.Token{
				Term:     []byte(text[start:end]),
				Start:    start,
				End:      end,
				Position: pos,
				Type:     analysis.AlphaNumeric,
			})
			pos++
		}
		start = -1
		runeLen = 0
	}

	for i, c := range text {
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			emit(i)
			continue
		}
		if start < 0 {
			start = i
		}
		runeLen++
	}
	emit(len(text))

	return result
}
