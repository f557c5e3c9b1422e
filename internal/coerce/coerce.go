// Package coerce forces a text-generation backend's reply into a parseable
// object. Structured-output mode reduces but does not eliminate malformed
// replies; coercion layers a strict parse, heuristic repair and a balanced
// brace extraction, then retries the call with escalating correction
// instructions.
package coerce

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"exitready/internal/llm"
)

// DefaultMaxRetries is the number of additional attempts after the first
// call fails to yield a valid object.
const DefaultMaxRetries = 2

// CallError reports that every attempt failed. It carries the last raw text
// so callers can log what the backend actually said before substituting
// their fallback payload.
type CallError struct {
	LastRaw  string
	Reason   string
	Attempts int
}

func (e *CallError) Error() string {
	return fmt.Sprintf("structured output failed after %d attempts: %s", e.Attempts, e.Reason)
}

// Result is the outcome of one coercion call: a validated payload or a
// CallError, never both. Callers must supply a default payload on failure
// rather than halt; generated output is never guaranteed parseable.
type Result struct {
	Payload map[string]any
	Err     *CallError
}

// Coercer wraps a generation client with the retry/repair loop.
type Coercer struct {
	client     llm.Client
	maxRetries int
}

func New(client llm.Client, maxRetries int) *Coercer {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Coercer{client: client, maxRetries: maxRetries}
}

// corrections are appended to the conversation one per retry, each more
// explicit than the last.
var corrections = []string{
	"Your previous reply was not a valid JSON object. Respond with only a JSON object, no prose.",
	"Respond with exactly one JSON object starting with '{' and ending with '}'. Include every required field. No markdown, no explanation, no text outside the braces.",
}

// Request issues a generation call in JSON mode and coerces the reply into
// an object containing every required key. On parse or validation failure it
// retries up to maxRetries additional times with an appended correction
// instruction. It never returns a transport error as a Go error; everything
// lands in the Result.
func (c *Coercer) Request(ctx context.Context, system, user string, requiredKeys []string) Result {
	messages := []llm.Message{{Role: "user", Content: user}}
	lastRaw := ""
	reason := ""

	attempts := c.maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			messages = append(messages,
				llm.Message{Role: "assistant", Content: lastRaw},
				llm.Message{Role: "user", Content: correction(attempt)},
			)
		}

		raw, err := c.client.Generate(ctx, llm.Request{
			System:      system,
			Messages:    messages,
			Mode:        llm.ModeJSON,
			Temperature: 0.2,
		})
		if err != nil {
			lastRaw = ""
			reason = fmt.Sprintf("generation call failed: %v", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		lastRaw = raw

		payload, perr := Parse(raw, requiredKeys)
		if perr == nil {
			if missing := missingKeys(payload, requiredKeys); len(missing) > 0 {
				reason = "missing required keys: " + strings.Join(missing, ", ")
				continue
			}
			return Result{Payload: payload}
		}
		reason = perr.Error()
	}

	return Result{Err: &CallError{LastRaw: lastRaw, Reason: reason, Attempts: attempts}}
}

// Generate passes a free-text request straight to the underlying client,
// for callers that want prose and can keep their input on failure.
func (c *Coercer) Generate(ctx context.Context, req llm.Request) (string, error) {
	return c.client.Generate(ctx, req)
}

func correction(attempt int) string {
	i := attempt - 1
	if i >= len(corrections) {
		i = len(corrections) - 1
	}
	return corrections[i]
}

// Parse attempts a strict parse, then runs the repair chain, then falls back
// to the largest balanced-brace substring. Exported for the research stage,
// which parses search text without going through a generation call.
func Parse(raw string, expectedKeys []string) (map[string]any, error) {
	if payload, err := parseObject(raw); err == nil {
		return payload, nil
	}

	repaired := raw
	for _, repair := range repairs {
		repaired = repair(repaired, expectedKeys)
	}
	if payload, err := parseObject(repaired); err == nil {
		return payload, nil
	}

	if candidate := largestBalancedObject(raw); candidate != "" {
		if payload, err := parseObject(candidate); err == nil {
			return payload, nil
		}
	}
	return nil, fmt.Errorf("no parseable object in response (%d bytes)", len(raw))
}

func parseObject(raw string) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("null object")
	}
	return payload, nil
}

func missingKeys(payload map[string]any, required []string) []string {
	var missing []string
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
