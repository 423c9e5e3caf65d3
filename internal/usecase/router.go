package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cag-gateway/internal/domain/entity"
	"cag-gateway/internal/domain/repository"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// HybridRouter answers queries cache-first: embed the query, look for a
// similar cached question, and only on a miss run the full retrieval plus
// generation pipeline, writing the fresh answer back for next time.
//
// The router holds no state of its own between calls; everything persistent
// lives in the CacheStore.
type HybridRouter struct {
	cache     repository.CacheStore
	index     repository.DocumentIndex
	generator repository.AnswerGenerator
	embedder  repository.Embedder

	threshold float32
	topK      int
}

func NewHybridRouter(cache repository.CacheStore, index repository.DocumentIndex, gen repository.AnswerGenerator, emb repository.Embedder, threshold float32, topK int) *HybridRouter {
	return &HybridRouter{
		cache:     cache,
		index:     index,
		generator: gen,
		embedder:  emb,
		threshold: threshold,
		topK:      topK,
	}
}

func (r *HybridRouter) Answer(ctx context.Context, query string) (*entity.Answer, error) {
	start := time.Now()

	// 1. Embed the query. Without a vector no cache lookup is possible, so
	// there is no fallback here.
	vector, err := r.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	// 2. Semantic cache lookup. The cache is an optimization, not the source
	// of truth: if the store is unreachable we degrade to a forced miss.
	match, score, err := r.cache.Lookup(ctx, vector, r.threshold)
	if err != nil {
		if !errors.Is(err, entity.ErrStoreUnavailable) {
			return nil, fmt.Errorf("cache lookup failed: %w", err)
		}
		fiberlog.Warnf("cache store unavailable, falling through to RAG: %v", err)
		match = nil
	}

	// 3. Cache hit: done. Cost so far is one embedding and one nearest
	// neighbor search, regardless of corpus size.
	if match != nil {
		fiberlog.Infof("cache hit (score=%.2f, source=%s)", score, match.Source)
		return &entity.Answer{
			Text:       match.Answer,
			Provenance: entity.ProvenanceCacheHit,
			Score:      score,
			Latency:    time.Since(start).Milliseconds(),
		}, nil
	}

	// 4. Miss: retrieve passages and generate. Retrieval failure is terminal;
	// a query that already missed the cache has no other answer source.
	passages, err := r.index.Search(ctx, query, r.topK)
	if err != nil {
		return nil, fmt.Errorf("passage retrieval failed: %w", err)
	}

	answerText, err := r.generator.Generate(ctx, BuildPrompt(query, passages))
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	// 5. Write-through, best effort. The answer is already in hand; cache
	// durability only matters for future similar queries, so failures are
	// logged and dropped. Background context: the request context may be
	// gone by the time the insert lands.
	entry := &entity.CacheEntry{
		Question:  query,
		Answer:    answerText,
		Source:    entity.SourceDynamic,
		CreatedAt: time.Now(),
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.cache.Insert(bgCtx, entry, vector); err != nil {
			fiberlog.Warnf("write-through insert dropped: %v", err)
		}
	}()

	return &entity.Answer{
		Text:       answerText,
		Provenance: entity.ProvenanceRAGGenerated,
		Latency:    time.Since(start).Milliseconds(),
	}, nil
}
