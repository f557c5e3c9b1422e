// Package research is the search collaborator boundary: one free-text query
// in, generated research text out. The pipeline never fails a run because
// this collaborator is down; a complete fallback payload substitutes for any
// non-success outcome.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTimeout bounds one search call.
const DefaultTimeout = 30 * time.Second

// ErrUnavailable is the explicit non-success status: missing credentials,
// timeout, or transport error. Callers switch to the fallback payload on it.
var ErrUnavailable = errors.New("research backend unavailable")

// Client answers one free-text research query.
type Client interface {
	Search(ctx context.Context, query string) (string, error)
}

// HTTPClient talks to a Perplexity-style chat endpoint that grounds its
// answers in web search.
type HTTPClient struct {
	baseURL string
	model   string
	http    *http.Client
	timeout time.Duration
}

// NewHTTPClient builds a search client. An empty API key yields a client
// whose every call reports ErrUnavailable, so wiring stays uniform whether
// or not credentials are configured.
func NewHTTPClient(baseURL, model, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &HTTPClient{baseURL: baseURL, model: model, timeout: timeout}
	if apiKey != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
		c.http = &http.Client{Transport: &oauth2.Transport{Source: ts}}
	}
	return c
}

type searchRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

type searchResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

// Search issues the query. Any transport failure, timeout or non-200 status
// wraps ErrUnavailable; the caller decides between retry and fallback.
func (c *HTTPClient) Search(ctx context.Context, query string) (string, error) {
	if c.http == nil {
		return "", fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := searchRequest{Model: c.model}
	body.Messages = append(body.Messages, struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{Role: "user", Content: query})

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("research request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("research request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return parsed.Choices[0].Message.Content, nil
}
