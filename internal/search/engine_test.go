package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwise/roadwise/internal/corpus"
	roaderr "github.com/roadwise/roadwise/internal/errors"
	"github.com/roadwise/roadwise/internal/index"
	"github.com/roadwise/roadwise/internal/rules"
	"github.com/roadwise/roadwise/internal/telemetry"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// handbookPassages all pass the quality filter.
var handbookPassages = []string{
	"The speed limit on 400-series highways is 100 km/h unless otherwise posted. " +
		"Drivers must reduce speed for traffic, weather and construction on any highway.",
	"To get a G1 license you must pass a knowledge test and an eye exam, and bring " +
		"identification documents proving your legal name and date of birth to the test centre.",
	"When you merge onto a highway, use the acceleration lane to match the speed of " +
		"traffic already driving in the nearest lane before you merge.",
	"If you are involved in a collision, stop immediately, assist anyone injured, and " +
		"call emergency services when there is injury or significant damage.",
	"Every vehicle on the road must be covered by insurance with third-party liability " +
		"coverage; driving without insurance brings a heavy fine and license suspension.",
}

func buildEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	r, err := rules.Default()
	require.NoError(t, err)

	docs := make([]map[string]any, len(handbookPassages))
	for i, p := range handbookPassages {
		docs[i] = map[string]any{"content": p, "metadata": map[string]any{"page": 40 + i}}
	}
	data, err := json.Marshal(docs)
	require.NoError(t, err)

	chunks, err := corpus.Prepare(data, r, discard)
	require.NoError(t, err)

	ix, err := index.Build(chunks, r, discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })

	return NewEngine(ix, r, discard, opts...)
}

// pageOf maps a passage prefix to the page it was loaded with.
func pageOf(t *testing.T, e *Engine, prefix string) int {
	t.Helper()
	for _, c := range e.ix.Chunks {
		if len(c.Content) >= len(prefix) && c.Content[:len(prefix)] == prefix {
			return c.Metadata.Page
		}
	}
	t.Fatalf("no chunk with prefix %q", prefix)
	return 0
}

func TestAskHighwaySpeedLimit(t *testing.T) {
	// Given the handbook corpus and no configured generator
	e := buildEngine(t)

	// When asking about the highway speed limit
	result, err := e.Ask(context.Background(), "What is the highway speed limit?", 5)
	require.NoError(t, err)

	// Then the detected category, top chunk, and context all point at
	// the speed-limit passage
	assert.Equal(t, "speed_limits", result.CategoryHint)
	require.NotEmpty(t, result.Chunks)
	assert.Contains(t, result.Chunks[0].Chunk.Content, "100 km/h")

	page := pageOf(t, e, "The speed limit")
	assert.Contains(t, result.Context, "[page "+strconv.Itoa(page)+"]")
	assert.Contains(t, result.Context, "100 km/h")

	// Without a generator the answer degrades to quoted context.
	assert.True(t, result.Degraded)
	assert.Contains(t, result.Answer, "Based on the MTO handbook:")
}

func TestAskUncategorizedQuery(t *testing.T) {
	e := buildEngine(t)

	result, err := e.Ask(context.Background(), "Who maintains the handbook content?", 5)
	require.NoError(t, err)

	// No category table matches; boosting is a no-op and whatever
	// lexical overlap exists still surfaces.
	assert.Equal(t, rules.CategoryGeneral, result.CategoryHint)
	for _, rc := range result.Chunks {
		assert.Greater(t, rc.FinalScore, 0.0)
	}
}

func TestAskNoMatches(t *testing.T) {
	e := buildEngine(t)

	result, err := e.Ask(context.Background(), "zymurgy quux flibbertigibbet?", 5)
	require.NoError(t, err)

	assert.Empty(t, result.Chunks)
	assert.Equal(t, "", result.Context)
	assert.True(t, result.Degraded)
}

func TestAskValidation(t *testing.T) {
	e := buildEngine(t)

	_, err := e.Ask(context.Background(), "", 5)
	require.Error(t, err)
	assert.Equal(t, roaderr.ErrCodeQueryEmpty, roaderr.GetCode(err))

	_, err = e.Ask(context.Background(), "   \t", 5)
	require.Error(t, err)
	assert.Equal(t, roaderr.ErrCodeQueryEmpty, roaderr.GetCode(err))

	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'q'
	}
	_, err = e.Ask(context.Background(), string(long), 5)
	require.Error(t, err)
	assert.Equal(t, roaderr.ErrCodeQueryTooLong, roaderr.GetCode(err))
}

func TestAskCachesIdenticalQueries(t *testing.T) {
	e := buildEngine(t, WithCache(NewQueryCache(16, time.Minute)))

	first, err := e.Ask(context.Background(), "What is the highway speed limit?", 5)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := e.Ask(context.Background(), "What is the highway speed limit?", 5)
	require.NoError(t, err)

	assert.True(t, second.CacheHit)
	assert.Equal(t, cachedElapsed, second.Elapsed)
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Context, second.Context)

	// A different topK is a different cache entry.
	third, err := e.Ask(context.Background(), "What is the highway speed limit?", 3)
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
}

type stubGenerator struct {
	answer string
	err    error
	calls  int
}

func (g *stubGenerator) Generate(_ context.Context, _, contextText, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func TestAskUsesGenerator(t *testing.T) {
	gen := &stubGenerator{answer: "The limit is 100 km/h."}
	e := buildEngine(t, WithGenerator(gen))

	result, err := e.Ask(context.Background(), "What is the highway speed limit?", 5)
	require.NoError(t, err)

	assert.Equal(t, "The limit is 100 km/h.", result.Answer)
	assert.False(t, result.Degraded)
	assert.Equal(t, 1, gen.calls)
}

func TestAskDegradesOnGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("backend down")}
	e := buildEngine(t, WithGenerator(gen))

	result, err := e.Ask(context.Background(), "What is the highway speed limit?", 5)
	require.NoError(t, err, "generation failure must not fail the query")

	assert.True(t, result.Degraded)
	assert.Contains(t, result.Answer, "Based on the MTO handbook:")
	assert.Contains(t, result.Answer, "speed limit")
}

func TestAskHonorsCancellation(t *testing.T) {
	gen := &stubGenerator{answer: "never"}
	e := buildEngine(t, WithGenerator(gen))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Ask(ctx, "What is the highway speed limit?", 5)
	require.Error(t, err)
	assert.Zero(t, gen.calls, "cancellation aborts before the generation call")
}

func TestAskRecordsMetrics(t *testing.T) {
	m := telemetry.NewMetrics()
	e := buildEngine(t, WithMetrics(m), WithCache(NewQueryCache(4, time.Minute)))

	_, err := e.Ask(context.Background(), "What is the highway speed limit?", 5)
	require.NoError(t, err)
	_, err = e.Ask(context.Background(), "What is the highway speed limit?", 5)
	require.NoError(t, err)

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.Queries)
	assert.Equal(t, int64(1), s.CacheHits)
	assert.Equal(t, int64(2), s.ByCategory["speed_limits"])
}

func TestRetrieveBoostsHintedCategory(t *testing.T) {
	e := buildEngine(t)

	// "test" hits licensing; the licensing chunk should rank first
	// even against lexical overlap elsewhere.
	ranked, hint, err := e.Retrieve(context.Background(), "What documents do I need for the G1 test?", 5)
	require.NoError(t, err)

	assert.Equal(t, "licensing", hint)
	require.NotEmpty(t, ranked)
	assert.Contains(t, ranked[0].Chunk.Content, "G1 license")
	assert.Equal(t, "licensing", ranked[0].Chunk.Category)
}

func TestRetrieveTopKBounds(t *testing.T) {
	e := buildEngine(t)

	ranked, _, err := e.Retrieve(context.Background(), "highway speed limit driving", 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(ranked), DefaultTopK)

	ranked, _, err = e.Retrieve(context.Background(), "highway speed limit driving", 500)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(ranked), MaxTopK)
}
