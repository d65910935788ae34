package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"alfredoptarigan/ai-interviewer/internal/config"
)

// maxEmbeddingRunes keeps embedding input near the model's ~10000 token limit.
const maxEmbeddingRunes = 40000

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

type geminiService struct {
	client       *genai.Client
	modelName    string
	embedModel   string
	initialDelay time.Duration
}

func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return client, nil
}

func NewGeminiService(client *genai.Client, cfg config.GeminiConfig, retryInitialDelay time.Duration) GeminiService {
	return &geminiService{
		client:       client,
		modelName:    cfg.Model,
		embedModel:   cfg.EmbedModel,
		initialDelay: retryInitialDelay,
	}
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(embeddingInput(text)), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 2048,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GenerateTextWithRetry implements GeminiService.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	expo := backoff.NewExponentialBackOff()
	if g.initialDelay > 0 {
		expo.InitialInterval = g.initialDelay
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(maxRetries-1)), ctx)

	var result string
	attempt := 0
	op := func() error {
		attempt++
		text, err := g.GenerateText(ctx, prompt, temperature)
		if err != nil {
			if attempt < maxRetries {
				log.Printf("⚠️ Attempt %d failed: %v. Retrying...\n", attempt, err)
			}
			return err
		}
		result = text
		return nil
	}

	if err := backoff.Retry(op, bo); err != nil {
		return "", fmt.Errorf("failed after %d attempts: %w", attempt, err)
	}

	return result, nil
}

// embeddingInput cuts text on a rune boundary so the request stays valid UTF-8.
func embeddingInput(text string) string {
	return truncateRunes(text, maxEmbeddingRunes)
}
