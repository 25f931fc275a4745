package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roaderr "github.com/roadwise/roadwise/internal/errors"
)

func TestFallback(t *testing.T) {
	long := strings.Repeat("speed limit rules ", 40)
	got := Fallback(long)

	assert.True(t, strings.HasPrefix(got, "Based on the MTO handbook: "))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), len("Based on the MTO handbook: ")+400+3)

	short := Fallback("brief context")
	assert.Equal(t, "Based on the MTO handbook: brief context...", short)
}

func TestStaticGenerator(t *testing.T) {
	got, err := Static{}.Generate(context.Background(), "any question", "the context", "Sources: Pages 1")
	require.NoError(t, err)
	assert.Equal(t, Fallback("the context"), got)
}

func TestPageSources(t *testing.T) {
	assert.Equal(t, "Sources: Pages 12, 7, 30", PageSources([]int{12, 7, 12, 30, 7}))
	assert.Equal(t, "Sources: Pages ", PageSources(nil))
}

func TestUserPromptContainsAllParts(t *testing.T) {
	p := UserPrompt("What is the limit?", "[page 5] The limit is 100 km/h.", "Sources: Pages 5")
	assert.Contains(t, p, "What is the limit?")
	assert.Contains(t, p, "[page 5] The limit is 100 km/h.")
	assert.Contains(t, p, "Sources: Pages 5")
}

func fastRetry() roaderr.RetryConfig {
	return roaderr.RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
}

func TestClientGenerate(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  The limit is 100 km/h.\n"}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key", Retry: fastRetry()})
	require.NoError(t, err)

	got, err := c.Generate(context.Background(), "highway limit?", "[page 5] ...", "Sources: Pages 5")
	require.NoError(t, err)
	assert.Equal(t, "The limit is 100 km/h.", got)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "highway limit?")
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.InDelta(t, DefaultTemperature, gotReq.Temperature, 1e-9)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k", Retry: fastRetry()})
	require.NoError(t, err)

	got, err := c.Generate(context.Background(), "q", "ctx", "s")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k", Retry: fastRetry()})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "q", "ctx", "s")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, roaderr.ErrCodeGenerationFailed, roaderr.GetCode(err))
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	require.Error(t, err)
}
