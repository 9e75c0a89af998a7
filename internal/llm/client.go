// Package llm wraps the external text-generation service behind a
// single-call gateway: build a prompt, issue one bounded request,
// return trimmed text or a typed failure.
package llm

import (
	"context"
	"errors"
)

// Typed failures of the gateway. The orchestrator treats all of them as
// pipeline failures; ErrNotConfigured is raised before any network call.
var (
	ErrNotConfigured = errors.New("GEMINI_API_KEY not configured")
	ErrEmptyResponse = errors.New("no response from Gemini")
	ErrUnavailable   = errors.New("AI service temporarily unavailable")
)

// TextGenerator is the interface the resolver and composer depend on.
// Generate performs exactly one round trip: the system prompt and user
// content are concatenated into a single request, and the response's
// text fragments are joined and trimmed. There is no retry; a failed
// call propagates immediately so the caller decides fallback behavior.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userContent string) (string, error)
}
