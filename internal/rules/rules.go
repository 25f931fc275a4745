// Package rules loads the versioned retrieval-rules document that drives
// the corpus filter, normalizer, categorizer, and query processor.
//
// The rules are data, not code: all keyword tables and normalization
// patterns live in a YAML document (embedded in configs/, overridable
// from disk) and are parsed exactly once at startup into an immutable
// Rules value shared read-only by the pipeline.
package rules

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roadwise/roadwise/configs"
)

// CategoryGeneral is the fallback category for chunks and queries that
// match no table entry.
const CategoryGeneral = "general"

// CategoryTable maps one category name to the keywords that vote for it.
type CategoryTable struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Expansion maps a domain phrase to its related query terms. Entries are
// ordered; expansion stops at the first phrase found in a question.
type Expansion struct {
	Phrase string   `yaml:"phrase"`
	Terms  []string `yaml:"terms"`
}

// Normalization is one ordered rewrite rule applied to raw passage text.
type Normalization struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`

	re *regexp.Regexp
}

// Apply rewrites all matches of the rule in s.
func (n *Normalization) Apply(s string) string {
	return n.re.ReplaceAllString(s, n.Replace)
}

// Rules is the parsed, immutable rules document.
type Rules struct {
	Version          int             `yaml:"version"`
	DomainVocabulary []string        `yaml:"domain_vocabulary"`
	ImportantTerms   []string        `yaml:"important_terms"`
	ChunkCategories  []CategoryTable `yaml:"chunk_categories"`
	QueryCategories  []CategoryTable `yaml:"query_categories"`
	Expansions       []Expansion     `yaml:"expansions"`
	Normalizations   []Normalization `yaml:"normalizations"`
	StopWords        []string        `yaml:"stop_words"`

	stopSet map[string]struct{}
}

// Default parses the embedded rules document.
func Default() (*Rules, error) {
	return Parse(configs.RetrievalRules)
}

// Load reads and parses a rules document from disk.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes, validates, and compiles a rules document.
func Parse(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	for i := range r.Normalizations {
		re, err := regexp.Compile(r.Normalizations[i].Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile normalization %q: %w", r.Normalizations[i].Pattern, err)
		}
		r.Normalizations[i].re = re
	}
	r.stopSet = make(map[string]struct{}, len(r.StopWords))
	for _, w := range r.StopWords {
		r.stopSet[strings.ToLower(w)] = struct{}{}
	}
	return &r, nil
}

func (r *Rules) validate() error {
	if r.Version <= 0 {
		return fmt.Errorf("rules: missing or invalid version")
	}
	if len(r.DomainVocabulary) == 0 {
		return fmt.Errorf("rules: domain_vocabulary is empty")
	}
	if len(r.ChunkCategories) == 0 || len(r.QueryCategories) == 0 {
		return fmt.Errorf("rules: category tables are empty")
	}
	seen := make(map[string]struct{})
	for _, c := range r.ChunkCategories {
		if c.Name == "" || len(c.Keywords) == 0 {
			return fmt.Errorf("rules: chunk category with empty name or keywords")
		}
		if c.Name == CategoryGeneral {
			return fmt.Errorf("rules: %q is reserved and cannot appear in a table", CategoryGeneral)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("rules: duplicate chunk category %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	for _, e := range r.Expansions {
		if e.Phrase == "" || len(e.Terms) == 0 {
			return fmt.Errorf("rules: expansion with empty phrase or terms")
		}
	}
	return nil
}

// IsStopWord reports whether the lowercased token is a TF-IDF stop word.
func (r *Rules) IsStopWord(token string) bool {
	_, ok := r.stopSet[strings.ToLower(token)]
	return ok
}

// Categories returns the closed set of chunk category names, excluding
// the general fallback.
func (r *Rules) Categories() []string {
	names := make([]string, len(r.ChunkCategories))
	for i, c := range r.ChunkCategories {
		names[i] = c.Name
	}
	return names
}
