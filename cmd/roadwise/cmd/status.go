package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// statusInfo is the machine-readable status report.
type statusInfo struct {
	CorpusPath     string         `json:"corpus_path"`
	Chunks         int            `json:"chunks"`
	Categories     map[string]int `json:"categories"`
	VocabularySize int            `json:"vocabulary_size"`
	RulesVersion   int            `json:"rules_version"`
	Generation     bool           `json:"generation_enabled"`
	Model          string         `json:"model,omitempty"`
	Metrics        statusMetrics  `json:"metrics"`
}

// statusMetrics summarizes query telemetry for this process.
type statusMetrics struct {
	Queries     int64  `json:"queries"`
	CacheHits   int64  `json:"cache_hits"`
	ZeroResults int64  `json:"zero_results"`
	Degraded    int64  `json:"degraded"`
	AvgLatency  string `json:"avg_latency"`
}

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show corpus and index health",
		Long: `Load the corpus and build the in-memory indexes, then report:
  - Number of usable handbook chunks after quality filtering
  - Chunk counts per category
  - TF-IDF vocabulary size
  - Whether answer generation is configured`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, jsonOutput bool) error {
	p, err := buildPipeline(true)
	if err != nil {
		return err
	}
	defer p.cleanup()

	info := statusInfo{
		CorpusPath:     p.cfg.Corpus.Path,
		Chunks:         len(p.index.Chunks),
		Categories:     make(map[string]int),
		VocabularySize: p.index.TFIDF.VocabularySize(),
		RulesVersion:   p.rules.Version,
		Generation:     p.cfg.Generation.APIKey != "",
		Model:          p.cfg.Generation.Model,
	}
	for _, c := range p.index.Chunks {
		info.Categories[c.Category]++
	}
	if !info.Generation {
		info.Model = ""
	}

	snap := p.metrics.Snapshot()
	info.Metrics = statusMetrics{
		Queries:     snap.Queries,
		CacheHits:   snap.CacheHits,
		ZeroResults: snap.ZeroResults,
		Degraded:    snap.Degraded,
		AvgLatency:  snap.AvgLatency.String(),
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "Corpus:     %s\n", info.CorpusPath)
	fmt.Fprintf(out, "Chunks:     %d\n", info.Chunks)
	fmt.Fprintf(out, "Vocabulary: %d terms\n", info.VocabularySize)
	fmt.Fprintf(out, "Rules:      version %d\n", info.RulesVersion)

	names := make([]string, 0, len(info.Categories))
	for name := range info.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "Categories:")
	for _, name := range names {
		fmt.Fprintf(out, "  %-18s %d\n", name, info.Categories[name])
	}

	if info.Generation {
		fmt.Fprintf(out, "Generation: enabled (%s)\n", info.Model)
	} else {
		fmt.Fprintln(out, "Generation: disabled (no API key)")
	}

	if info.Metrics.Queries > 0 {
		fmt.Fprintf(out, "Queries:    %d (%d cached, %d degraded, %d empty, avg %s)\n",
			info.Metrics.Queries, info.Metrics.CacheHits,
			info.Metrics.Degraded, info.Metrics.ZeroResults,
			info.Metrics.AvgLatency)
	}
	return nil
}
