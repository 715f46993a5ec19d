// Package llm wraps the text-generation providers behind one interface.
package llm

import (
	"context"
	"strings"
)

// Generator produces a completion for a single user prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64, model string) (string, error)
}

// StripCodeFences returns the body of the first fenced block in content,
// or content itself when it has no fence.
func StripCodeFences(content string) string {
	start := strings.Index(content, "```")
	if start < 0 {
		return strings.TrimSpace(content)
	}

	body := content[start+3:]
	// drop the language tag on the opening fence line
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}

	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
