package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	roaderr "github.com/roadwise/roadwise/internal/errors"
)

// Default chat backend configuration.
const (
	DefaultBaseURL     = "https://api.x.ai"
	DefaultModel       = "grok-4-0709"
	DefaultTemperature = 0.05
	DefaultTimeout     = 30 * time.Second
)

// ClientConfig configures the chat-completions client.
type ClientConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Retry       roaderr.RetryConfig
}

// Client answers questions through an OpenAI-compatible chat
// completions endpoint. Transient failures are retried with backoff;
// a circuit breaker sends callers straight to the degraded answer
// while the backend stays down.
type Client struct {
	http    *http.Client
	config  ClientConfig
	breaker *roaderr.CircuitBreaker
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates a chat client. Missing fields fall back to
// defaults; the API key is required.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, roaderr.New(roaderr.ErrCodeGenerationFailed, "missing backend API key", nil)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Temperature == 0 {
		config.Temperature = DefaultTemperature
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Retry.MaxRetries == 0 && config.Retry.InitialDelay == 0 {
		config.Retry = roaderr.DefaultRetryConfig()
	}

	return &Client{
		http:    &http.Client{Timeout: config.Timeout},
		config:  config,
		breaker: roaderr.NewCircuitBreaker("generation"),
	}, nil
}

// Generate runs one chat completion for the question over the
// assembled context. When the circuit is open it returns the degraded
// answer without touching the network.
func (c *Client) Generate(ctx context.Context, question, contextText, sources string) (string, error) {
	return roaderr.CircuitExecuteWithResult(c.breaker,
		func() (string, error) {
			return roaderr.RetryWithResult(ctx, c.config.Retry, func() (string, error) {
				return c.complete(ctx, question, contextText, sources)
			})
		},
		func() (string, error) {
			return Fallback(contextText), nil
		})
}

func (c *Client) complete(ctx context.Context, question, contextText, sources string) (string, error) {
	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: UserPrompt(question, contextText, sources)},
		},
		Temperature: c.config.Temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", roaderr.GenerationError("marshal request", err)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", roaderr.GenerationError("create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", roaderr.New(roaderr.ErrCodeGenerationTimeout, "generation timed out", err)
		}
		return "", roaderr.New(roaderr.ErrCodeNetworkUnavailable, "backend unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return "", roaderr.New(roaderr.ErrCodeNetworkUnavailable, msg, nil)
		}
		return "", roaderr.GenerationError(msg, nil)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", roaderr.GenerationError("decode response", err)
	}
	if chatResp.Error != nil {
		return "", roaderr.GenerationError(chatResp.Error.Message, nil)
	}
	if len(chatResp.Choices) == 0 {
		return "", roaderr.GenerationError("backend returned no choices", nil)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
