package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	roaderr "github.com/roadwise/roadwise/internal/errors"
	"github.com/roadwise/roadwise/internal/generate"
	"github.com/roadwise/roadwise/internal/index"
	"github.com/roadwise/roadwise/internal/rules"
	"github.com/roadwise/roadwise/internal/telemetry"
)

const (
	// DefaultTopK is the number of fused results when the caller does
	// not ask for more.
	DefaultTopK = 5

	// MaxTopK bounds caller-supplied result counts.
	MaxTopK = 20

	// maxQuestionLen bounds question length; anything longer is not a
	// question.
	maxQuestionLen = 1000
)

// Engine ties the pipeline together over one built index. The index,
// rules, and searchers are immutable after construction; the cache is
// the only shared mutable state and is concurrency-safe, so Ask may be
// called from concurrent goroutines.
type Engine struct {
	ix        *index.Index
	rules     *rules.Rules
	searchers []Searcher
	generator generate.Generator
	cache     *QueryCache
	metrics   *telemetry.Metrics
	logger    *slog.Logger

	maxContext int
}

// Option configures an Engine.
type Option func(*Engine)

// WithGenerator sets the answer generator. Without one the engine
// always answers from context alone.
func WithGenerator(g generate.Generator) Option {
	return func(e *Engine) { e.generator = g }
}

// WithCache sets the query cache. Without one nothing is cached.
func WithCache(c *QueryCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithMetrics sets the telemetry sink.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithMaxContextChars overrides the assembled-context budget.
func WithMaxContextChars(n int) Option {
	return func(e *Engine) { e.maxContext = n }
}

// NewEngine creates an engine over a built index.
func NewEngine(ix *index.Index, r *rules.Rules, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		ix:    ix,
		rules: r,
		searchers: []Searcher{
			NewLexicalSearcher(ix),
			NewVectorSearcher(ix, r),
		},
		logger:     logger,
		maxContext: maxContextChars,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func validateQuestion(question string, topK int) (int, error) {
	if strings.TrimSpace(question) == "" {
		return 0, roaderr.ValidationError(roaderr.ErrCodeQueryEmpty, "question is empty")
	}
	if len(question) > maxQuestionLen {
		return 0, roaderr.ValidationError(roaderr.ErrCodeQueryTooLong, "question is too long")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	return topK, nil
}

// Retrieve runs expansion, both searchers, and fusion for a question
// without generating an answer. It returns the fused chunks and the
// detected category hint.
func (e *Engine) Retrieve(ctx context.Context, question string, topK int) ([]RankedChunk, string, error) {
	topK, err := validateQuestion(question, topK)
	if err != nil {
		return nil, "", err
	}

	variants := ExpandQuery(question, e.rules)
	hint := DetectCategory(question, e.rules)

	results, err := e.parallelSearch(ctx, variants, topK, hint)
	if err != nil {
		return nil, "", err
	}
	return Fuse(results, topK, hint), hint, nil
}

// parallelSearch runs every (variant, searcher) pair concurrently.
// A failing searcher degrades to an empty contribution; only context
// cancellation aborts the whole search.
func (e *Engine) parallelSearch(ctx context.Context, variants []string, topK int, hint string) ([]SearchResult, error) {
	slots := make([][]SearchResult, len(variants)*len(e.searchers))

	g, gctx := errgroup.WithContext(ctx)
	for vi, variant := range variants {
		for si, s := range e.searchers {
			slot := vi*len(e.searchers) + si
			variant, s := variant, s
			g.Go(func() error {
				res, err := s.Search(gctx, variant, topK, hint)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					e.logger.Warn("search method degraded",
						"method", s.Method(),
						"error", err)
					return nil
				}
				slots[slot] = res
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []SearchResult
	for _, res := range slots {
		all = append(all, res...)
	}
	return all, nil
}

// Ask answers a question end to end. Generation failures degrade to a
// context-only answer instead of erroring; only validation problems,
// cancellation, or a total search failure surface to the caller.
func (e *Engine) Ask(ctx context.Context, question string, topK int) (QueryResult, error) {
	topK, err := validateQuestion(question, topK)
	if err != nil {
		return QueryResult{}, err
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(question, topK); ok {
			e.logger.Info("cache hit", "question", question)
			e.record(cached)
			return cached, nil
		}
	}

	start := time.Now()

	ranked, hint, err := e.Retrieve(ctx, question, topK)
	if err != nil {
		return QueryResult{}, err
	}

	result := QueryResult{
		Question:     question,
		Chunks:       ranked,
		CategoryHint: hint,
	}
	result.Context = AssembleContext(ranked, e.maxContext)

	// Generation is the suspension point: respect cancellation before
	// committing to the network call.
	if err := ctx.Err(); err != nil {
		return QueryResult{}, err
	}
	result.Answer, result.Degraded = e.generate(ctx, question, result)

	result.Elapsed = time.Since(start)

	if e.cache != nil {
		e.cache.Put(question, topK, result)
	}

	e.logger.Info("query answered",
		"question", question,
		"category", hint,
		"results", len(ranked),
		"degraded", result.Degraded,
		"elapsed", result.Elapsed)
	e.record(result)

	return result, nil
}

func (e *Engine) generate(ctx context.Context, question string, result QueryResult) (answer string, degraded bool) {
	if e.generator == nil {
		return generate.Fallback(result.Context), true
	}

	sources := generate.PageSources(result.Pages())
	answer, err := e.generator.Generate(ctx, question, result.Context, sources)
	if err != nil {
		e.logger.Warn("generation failed, answering from context",
			"question", question,
			"error", err)
		return generate.Fallback(result.Context), true
	}
	return answer, false
}

func (e *Engine) record(result QueryResult) {
	if e.metrics == nil {
		return
	}
	e.metrics.Record(telemetry.QueryEvent{
		Category:    result.CategoryHint,
		ResultCount: len(result.Chunks),
		CacheHit:    result.CacheHit,
		Degraded:    result.Degraded,
		Latency:     result.Elapsed,
	})
}
