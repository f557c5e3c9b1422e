package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTimeout bounds one generation call. Backends give no latency
// guarantee, so every call carries its own deadline.
const DefaultTimeout = 45 * time.Second

// HTTPClient talks to an OpenAI-style chat-completions endpoint.
type HTTPClient struct {
	baseURL string
	model   string
	http    *http.Client
	timeout time.Duration
}

type options struct {
	timeout time.Duration
	verbose bool
	// writer controls where verbose HTTP logs are written (typically stderr)
	// so structured output on stdout stays clean and tests can capture logs.
	writer io.Writer
}

type Option func(*options)

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithVerbose(enabled bool, writer io.Writer) Option {
	return func(o *options) {
		o.verbose = enabled
		o.writer = writer
	}
}

// loggingRoundTripper wraps an underlying transport and emits one line per
// request and response (including latency) when verbose logging is enabled.
type loggingRoundTripper struct {
	base http.RoundTripper
	w    io.Writer
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	if t.w != nil {
		_, _ = fmt.Fprintf(t.w, "[verbose] llm api: %s %s\n", req.Method, req.URL.String())
	}
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start)
	if t.w != nil {
		if err != nil {
			_, _ = fmt.Fprintf(t.w, "[verbose] llm api: error after %s: %v\n", dur.Truncate(time.Millisecond), err)
		} else {
			_, _ = fmt.Fprintf(t.w, "[verbose] llm api: %d %s (%s)\n", resp.StatusCode, http.StatusText(resp.StatusCode), dur.Truncate(time.Millisecond))
		}
	}
	return resp, err
}

// NewHTTPClient builds a client for the given endpoint and model. The API
// key rides on every request via a static oauth2 token source.
func NewHTTPClient(baseURL, model, apiKey string, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("llm client: base URL is empty")
	}
	if model == "" {
		return nil, fmt.Errorf("llm client: model is empty")
	}

	o := &options{timeout: DefaultTimeout}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}
	if o.verbose && o.writer == nil {
		o.writer = os.Stderr
	}

	transport := http.DefaultTransport
	if o.verbose {
		transport = &loggingRoundTripper{base: transport, w: o.writer}
	}
	if apiKey != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}

	return &HTTPClient{
		baseURL: baseURL,
		model:   model,
		http:    &http.Client{Transport: transport},
		timeout: o.timeout,
	}, nil
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []Message      `json:"messages"`
	Temperature    float64        `json:"temperature,omitempty"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate issues one chat-completions call and returns the generated text.
func (c *HTTPClient) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, Message{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.Mode == ModeJSON {
		body.ResponseFormat = map[string]any{"type": "json_object"}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("llm response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm call: status %d: %s", resp.StatusCode, truncate(string(payload), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("llm response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm call: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm response: no choices returned")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
