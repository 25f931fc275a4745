package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roadwise/roadwise/internal/search"
)

// askOptions holds CLI flags for ask.
type askOptions struct {
	topK        int
	format      string // "text", "json"
	showContext bool
	offline     bool
}

func newAskCmd() *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about Ontario driving rules",
		Long: `Ask a question and get an answer grounded in the MTO
driver's handbook.

The question is matched against the handbook corpus with BM25 and
n-gram TF-IDF retrieval; the fused passages either feed the external
model or are returned directly when generation is unavailable.

Examples:
  roadwise ask "what is the speed limit on a 400-series highway?"
  roadwise ask "when must I stop for a school bus?" --top-k 3
  roadwise ask "G1 passenger rules" --format json --show-context`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			return runAsk(cmd.Context(), cmd, question, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.topK, "top-k", "n", 0, "Number of passages to retrieve (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.showContext, "show-context", false, "Print the assembled handbook context")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Skip the generation backend, answer from context only")

	return cmd
}

func runAsk(ctx context.Context, cmd *cobra.Command, question string, opts askOptions) error {
	p, err := buildPipeline(opts.offline)
	if err != nil {
		return err
	}
	defer p.cleanup()

	topK := opts.topK
	if topK <= 0 {
		topK = p.cfg.Search.TopK
	}

	p.logger.Info("ask_started",
		slog.String("question", question),
		slog.Int("top_k", topK))

	result, err := p.engine.Ask(ctx, question, topK)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		return printAskJSON(cmd, result, opts.showContext)
	}
	return printAskText(cmd, result, opts.showContext)
}

func printAskText(cmd *cobra.Command, result search.QueryResult, showContext bool) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, result.Answer)

	if pages := result.Pages(); len(pages) > 0 {
		parts := make([]string, len(pages))
		for i, p := range pages {
			parts[i] = fmt.Sprintf("%d", p)
		}
		fmt.Fprintf(out, "\nSources: handbook pages %s\n", strings.Join(parts, ", "))
	}

	var notes []string
	if result.CategoryHint != "" {
		notes = append(notes, "category: "+result.CategoryHint)
	}
	if result.CacheHit {
		notes = append(notes, "cached")
	}
	if result.Degraded {
		notes = append(notes, "degraded")
	}
	notes = append(notes, fmt.Sprintf("%.0fms", float64(result.Elapsed.Milliseconds())))
	fmt.Fprintf(out, "(%s)\n", strings.Join(notes, ", "))

	if showContext {
		fmt.Fprintf(out, "\n--- context ---\n%s\n", result.Context)
	}
	return nil
}

func printAskJSON(cmd *cobra.Command, result search.QueryResult, showContext bool) error {
	if !showContext {
		result.Context = ""
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
