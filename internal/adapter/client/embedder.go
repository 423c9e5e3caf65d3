package client

import (
	"context"
	"fmt"
	"strings"

	"cag-gateway/internal/domain/entity"

	"google.golang.org/genai"
)

// maxEmbedInputRunes approximates the embedding model's token budget; Vertex
// text-embedding models truncate around 2048 tokens, so anything past this is
// rejected up front instead of silently losing its tail.
const maxEmbedInputRunes = 8000

// Embedder produces question/query vectors with a Vertex AI embedding model.
// Cache entries and live queries must go through the same model instance:
// similarity scores across model versions are meaningless.
type Embedder struct {
	client *genai.Client
	model  string // e.g., "text-embedding-004"
}

func NewEmbedderFromClient(c *genai.Client, model string) *Embedder {
	return &Embedder{
		client: c,
		model:  model,
	}
}

func (e *Embedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("cannot embed empty input: %w", entity.ErrEmbedding)
	}
	if len([]rune(trimmed)) > maxEmbedInputRunes {
		return nil, fmt.Errorf("input of %d runes exceeds embedding budget: %w", len([]rune(trimmed)), entity.ErrEmbedding)
	}

	res, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(trimmed), nil)
	if err != nil {
		return nil, fmt.Errorf("embed content: %v: %w", err, entity.ErrEmbedding)
	}
	if len(res.Embeddings) == 0 || len(res.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("embedding model returned no vector: %w", entity.ErrEmbedding)
	}
	return res.Embeddings[0].Values, nil
}
