// Package index builds the two lexical retrieval structures the search
// pipeline runs against: a bleve full-text index scored with BM25, and
// an n-gram TF-IDF matrix with cosine scoring. Both are built once
// over the prepared corpus and are immutable afterwards.
package index

import (
	"strings"
	"unicode"

	"github.com/roadwise/roadwise/internal/rules"
)

// minTokenLen drops noise tokens before BM25 indexing; one- and
// two-character fragments carry no retrieval signal in handbook prose.
const minTokenLen = 3

// LexicalTokens lowercases text, splits on whitespace, and drops
// tokens shorter than three characters. This is the analysis applied
// to both documents and queries on the BM25 side.
func LexicalTokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// wordTokens extracts lowercase word tokens of at least two word
// characters, the unit the TF-IDF vocabulary is built from. Stop words
// are removed before n-gram construction so n-grams never span them.
func wordTokens(text string, r *rules.Rules) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if len([]rune(tok)) < 2 {
			return
		}
		if r.IsStopWord(tok) {
			return
		}
		tokens = append(tokens, tok)
	}
	for _, c := range strings.ToLower(text) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			b.WriteRune(c)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// ngrams expands word tokens into contiguous n-grams for n in
// [minN, maxN], joined with single spaces.
func ngrams(tokens []string, minN, maxN int) []string {
	var grams []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}
