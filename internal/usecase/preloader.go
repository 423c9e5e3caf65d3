package usecase

import (
	"context"
	"fmt"
	"time"

	"cag-gateway/internal/domain/entity"
	"cag-gateway/internal/domain/repository"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Preloader bulk-loads pre-seeded question/answer pairs into the cache. It
// goes through the same Insert path as the router's write-through, so the
// embedding-of-the-question invariant holds identically for both origins.
//
// Preload appends: running it twice without Reset stores every pair twice.
// Callers that want a clean reseed must reset first.
type Preloader struct {
	cache    repository.CacheStore
	embedder repository.Embedder
}

func NewPreloader(cache repository.CacheStore, emb repository.Embedder) *Preloader {
	return &Preloader{cache: cache, embedder: emb}
}

// Preload embeds and inserts every pair, returning the number stored. A pair
// whose question cannot be embedded is skipped and logged; store failures
// abort the load since continuing would produce a partially seeded cache with
// no record of what made it in.
func (p *Preloader) Preload(ctx context.Context, pairs []entity.QAPair) (int, error) {
	stored := 0
	for i, qa := range pairs {
		vector, err := p.embedder.CreateEmbedding(ctx, qa.Question)
		if err != nil {
			fiberlog.Warnf("skipping pair %d: embedding failed: %v", i, err)
			continue
		}

		entry := &entity.CacheEntry{
			Question:  qa.Question,
			Answer:    qa.Answer,
			Source:    entity.SourcePreseeded,
			CreatedAt: time.Now(),
		}
		if err := p.cache.Insert(ctx, entry, vector); err != nil {
			return stored, fmt.Errorf("preload aborted after %d entries: %w", stored, err)
		}
		stored++
	}
	return stored, nil
}

// Reset clears the store. Separate from Preload so doubling the cache by
// reseeding without a reset is an explicit caller decision, never an accident
// hidden inside the load.
func (p *Preloader) Reset(ctx context.Context) error {
	return p.cache.Reset(ctx)
}
