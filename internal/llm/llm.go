// Package llm is the text-generation collaborator boundary. The pipeline
// consumes it as an opaque request/response service; everything about
// coercing its output into structured data lives in internal/coerce.
package llm

import "context"

// Output modes. JSON mode asks the backend for a structured object; the
// result may still be malformed and must go through the coercion layer.
const (
	ModeText = "text"
	ModeJSON = "json"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one generation call.
type Request struct {
	System      string
	Messages    []Message
	Mode        string
	Temperature float64
	MaxTokens   int
}

// Client generates text. Implementations must honor ctx cancellation and
// return the raw generated text without post-processing.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
