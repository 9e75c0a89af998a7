package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// One network round trip, bounded. No retry on failure.
	requestTimeout = 30 * time.Second

	defaultTemperature     = 0.1
	defaultTopK            = 20
	defaultTopP            = 0.9
	defaultMaxOutputTokens = 2048
)

// GeminiClient is the gateway to Google's Gemini models. A client built
// without an API key is still usable as a value; every Generate call on
// it fails with ErrNotConfigured before touching the network, so a
// missing credential degrades requests instead of crashing the process.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

var _ TextGenerator = (*GeminiClient)(nil)

// NewGeminiClient builds the client for the given model. An empty API
// key is tolerated: the constructor warns and returns a disabled client.
func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if apiKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not set, generation calls will fail")
		return &GeminiClient{}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelID)
	model.SetTemperature(defaultTemperature)
	model.SetTopK(defaultTopK)
	model.SetTopP(defaultTopP)
	model.SetMaxOutputTokens(defaultMaxOutputTokens)

	return &GeminiClient{client: client, model: model}, nil
}

// Generate performs a single blocking request to the Gemini API. The
// system prompt and user content travel as one combined text part. All
// text fragments of the first candidate are joined with a space and
// trimmed. Transport errors are logged and converted to ErrUnavailable;
// the underlying cause is never exposed to the caller.
func (c *GeminiClient) Generate(ctx context.Context, systemPrompt, userContent string) (string, error) {
	if c.model == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(systemPrompt+"\n\nUser message:\n"+userContent))
	if err != nil {
		log.Printf("Gemini API error: %v", err)
		return "", ErrUnavailable
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			parts = append(parts, string(txt))
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// Close releases the underlying SDK connection. Safe on a disabled client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
