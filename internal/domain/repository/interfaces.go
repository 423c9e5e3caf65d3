package repository

import (
	"context"

	"cag-gateway/internal/domain/entity"
)

// CacheStore is the semantic cache boundary. Lookup returns the single best
// match with its cosine similarity, or nil when nothing scores at or above
// threshold (an empty store is a no-match, not an error). Insert appends;
// duplicate questions are permitted and independently retrievable. Reset
// deletes everything, irreversibly. Connectivity failures surface wrapped in
// entity.ErrStoreUnavailable.
type CacheStore interface {
	Lookup(ctx context.Context, vector []float32, threshold float32) (*entity.CacheEntry, float32, error)
	Insert(ctx context.Context, entry *entity.CacheEntry, vector []float32) error
	Reset(ctx context.Context) error
}

// DocumentIndex is the retrieval boundary: ranked passages, best first.
type DocumentIndex interface {
	Search(ctx context.Context, query string, k int) ([]entity.Passage, error)
}

// AnswerGenerator produces a natural-language answer for a fully built prompt.
// It honors the context deadline and reports expiry as entity.ErrGenerationTimeout.
type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type QueryLimiter interface {
	CheckLimit(ctx context.Context, userID string) (bool, error)
	Increment(ctx context.Context, userID string) error
}

// Embedder converts text to a fixed-dimension vector, deterministically for
// identical input. The same model must embed cache entries and live queries;
// cosine similarity is only meaningful within one model.
type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}
