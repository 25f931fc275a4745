package index

import (
	"math"
	"sort"

	roaderr "github.com/roadwise/roadwise/internal/errors"
	"github.com/roadwise/roadwise/internal/rules"
)

const (
	// maxVocabulary caps the n-gram vocabulary at the most frequent
	// terms; ties break alphabetically so builds are deterministic.
	maxVocabulary = 5000

	// maxDocFreqRatio drops n-grams appearing in more than 90% of
	// documents; they separate nothing.
	maxDocFreqRatio = 0.9

	ngramMin = 1
	ngramMax = 3
)

// TFIDF is a fitted n-gram TF-IDF model with cosine scoring. Term
// frequencies are sublinear (1 + ln tf), document frequencies are
// smoothed, and every vector is L2-normalized, so the dot product of a
// query vector with a document row is their cosine similarity.
type TFIDF struct {
	vocab map[string]int // term -> column
	idf   []float64
	rows  []sparseVec // one normalized vector per document
}

// sparseVec stores the non-zero entries of a vector sorted by column.
type sparseVec struct {
	cols []int
	vals []float64
}

func (v sparseVec) dot(w sparseVec) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(v.cols) && j < len(w.cols) {
		switch {
		case v.cols[i] == w.cols[j]:
			sum += v.vals[i] * w.vals[j]
			i++
			j++
		case v.cols[i] < w.cols[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// FitTFIDF builds the vocabulary and document matrix over the corpus
// contents. It fails if no n-gram survives the frequency pruning; an
// index with an empty vocabulary can only ever score zero.
func FitTFIDF(contents []string, r *rules.Rules) (*TFIDF, error) {
	n := len(contents)
	if n == 0 {
		return nil, roaderr.IndexError("nothing to index", nil)
	}

	// Count term and document frequencies over the full n-gram space.
	docGrams := make([]map[string]int, n)
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for i, content := range contents {
		counts := make(map[string]int)
		for _, g := range ngrams(wordTokens(content, r), ngramMin, ngramMax) {
			counts[g]++
		}
		docGrams[i] = counts
		for g, c := range counts {
			termFreq[g] += c
			docFreq[g]++
		}
	}

	// Prune over-common terms, then keep the most frequent of what
	// remains, breaking frequency ties alphabetically.
	maxDF := int(maxDocFreqRatio * float64(n))
	if maxDF < 1 {
		maxDF = 1
	}
	kept := make([]string, 0, len(termFreq))
	for g, df := range docFreq {
		if df <= maxDF {
			kept = append(kept, g)
		}
	}
	if len(kept) == 0 {
		return nil, roaderr.New(roaderr.ErrCodeVocabularyEmpty,
			"no terms survived document-frequency pruning", nil)
	}
	sort.Slice(kept, func(i, j int) bool {
		if termFreq[kept[i]] != termFreq[kept[j]] {
			return termFreq[kept[i]] > termFreq[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if len(kept) > maxVocabulary {
		kept = kept[:maxVocabulary]
	}
	// Column order is alphabetical within the selected vocabulary.
	sort.Strings(kept)

	t := &TFIDF{
		vocab: make(map[string]int, len(kept)),
		idf:   make([]float64, len(kept)),
	}
	for col, g := range kept {
		t.vocab[g] = col
		// Smoothed IDF: ln((1+n)/(1+df)) + 1.
		t.idf[col] = math.Log(float64(1+n)/float64(1+docFreq[g])) + 1
	}

	t.rows = make([]sparseVec, n)
	for i, counts := range docGrams {
		t.rows[i] = t.vectorize(counts)
	}
	return t, nil
}

// vectorize builds the normalized sublinear-TF vector for a term-count
// map restricted to the fitted vocabulary.
func (t *TFIDF) vectorize(counts map[string]int) sparseVec {
	cols := make([]int, 0, len(counts))
	for g := range counts {
		if col, ok := t.vocab[g]; ok {
			cols = append(cols, col)
		}
	}
	sort.Ints(cols)

	// Rebuild term lookup by column for value assembly.
	vals := make([]float64, len(cols))
	norm := 0.0
	colTerm := make(map[int]string, len(counts))
	for g := range counts {
		if col, ok := t.vocab[g]; ok {
			colTerm[col] = g
		}
	}
	for k, col := range cols {
		tf := 1 + math.Log(float64(counts[colTerm[col]]))
		v := tf * t.idf[col]
		vals[k] = v
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for k := range vals {
			vals[k] /= norm
		}
	}
	return sparseVec{cols: cols, vals: vals}
}

// Scores returns the cosine similarity of the query against every
// document, in corpus order. Queries sharing no vocabulary with the
// corpus score zero everywhere.
func (t *TFIDF) Scores(query string, r *rules.Rules) []float64 {
	counts := make(map[string]int)
	for _, g := range ngrams(wordTokens(query, r), ngramMin, ngramMax) {
		counts[g]++
	}
	qv := t.vectorize(counts)

	scores := make([]float64, len(t.rows))
	if len(qv.cols) == 0 {
		return scores
	}
	for i := range t.rows {
		scores[i] = qv.dot(t.rows[i])
	}
	return scores
}

// VocabularySize returns the number of fitted terms.
func (t *TFIDF) VocabularySize() int {
	return len(t.vocab)
}
