package client

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiGenerator answers a fully built prompt with a Vertex AI Gemini model.
// Temperature is pinned to zero: the gateway wants reproducible, source-bound
// answers, not creative ones.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGeneratorFromClient(c *genai.Client, model string) *GeminiGenerator {
	return &GeminiGenerator{
		client: c,
		model:  model,
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("model %s returned an empty answer", g.model)
	}
	return text, nil
}
