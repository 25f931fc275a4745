// Package configs provides embedded configuration and rules data for roadwise.
//
// Both documents are embedded at build time with go:embed so every
// distribution (go install, binary release) carries them. The retrieval
// rules are the authoritative default tables for the pipeline; a custom
// rules file can be pointed to from the config.
package configs

import _ "embed"

// RetrievalRules is the embedded, versioned rules document: domain
// vocabulary, category keyword tables, query expansions, normalization
// rules, and TF-IDF stop words.
//
//go:embed retrieval.yaml
var RetrievalRules []byte

// ConfigTemplate is the annotated example configuration written by
// `roadwise config init`.
//
//go:embed config.example.yaml
var ConfigTemplate []byte
