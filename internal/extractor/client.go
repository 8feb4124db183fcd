package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizsaver/internal/logger"

	"google.golang.org/genai"
)

// GeminiClient is the minimal surface the extractor needs from the Gemini
// SDK. Tests swap in a stub.
type GeminiClient interface {
	GenerateParts(ctx context.Context, model string, parts []*genai.Part) (string, error)
}

// Client wraps the official genai SDK.
type Client struct {
	client *genai.Client
}

var _ GeminiClient = (*Client)(nil)

// NewClient creates a Gemini client with an explicit API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: c}, nil
}

// GenerateParts sends a single-turn request and returns the text reply.
// Temporary errors (429, 5xx) are retried with backoff; quota exhaustion
// fails immediately.
func (c *Client) GenerateParts(ctx context.Context, model string, parts []*genai.Part) (string, error) {
	const maxRetries = 3
	const baseDelay = 2 * time.Second

	contents := []*genai.Content{{Parts: parts, Role: "user"}}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseDelay * time.Duration(1<<(attempt-1))
			logger.Warn("gemini: retrying request", map[string]interface{}{
				"attempt": attempt + 1, "delay": delay.String(),
			})
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := c.client.Models.GenerateContent(ctx, model, contents, nil)
		if err == nil {
			text, textErr := result.Text()
			if textErr != nil {
				return "", fmt.Errorf("get text from result: %w", textErr)
			}
			return text, nil
		}

		lastErr = err
		if isQuotaError(err.Error()) {
			return "", fmt.Errorf("gemini quota exceeded: %w", err)
		}
		if !isRetryableError(err.Error()) {
			return "", fmt.Errorf("generate content: %w", err)
		}
	}
	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isQuotaError(errStr string) bool {
	s := strings.ToLower(errStr)
	return strings.Contains(s, "quota") || strings.Contains(s, "daily limit")
}

func isRetryableError(errStr string) bool {
	s := strings.ToLower(errStr)
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "resource exhausted") ||
		strings.Contains(s, "500") ||
		strings.Contains(s, "502") ||
		strings.Contains(s, "503") ||
		strings.Contains(s, "504") ||
		strings.Contains(s, "overloaded") ||
		strings.Contains(s, "unavailable")
}
