package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"tfsmith/internal/config"
	"tfsmith/internal/logging"
)

const defaultGeminiModel = "gemini-2.5-pro"

// GeminiClient calls the Gemini API through the official genai SDK.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(cfg config.LLMConfig) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &GeminiClient{client: client, model: model, timeout: timeout}, nil
}

// Name returns the backend identifier.
func (c *GeminiClient) Name() string {
	return fmt.Sprintf("gemini:%s", c.model)
}

// Complete sends a prompt and returns the completion.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system instruction.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.GenerationDebug("[Gemini] model=%s system_len=%d user_len=%d", c.model, len(systemPrompt), len(userPrompt))

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	}
	if systemPrompt != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), genConfig)
	if err != nil {
		logging.GenerationError("[Gemini] request failed after %v: %v", time.Since(startTime), err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no completion returned")
	}

	logging.Generation("[Gemini] completed in %v response_len=%d", time.Since(startTime), len(text))
	return text, nil
}
