package main

import (
	"context"
	"log"
	"time"

	"cag-gateway/internal/adapter/api"
	"cag-gateway/internal/adapter/client"
	"cag-gateway/internal/adapter/index"
	"cag-gateway/internal/adapter/store"
	"cag-gateway/internal/config"
	"cag-gateway/internal/usecase"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx := context.Background()

	// Redis for per-user query quotas
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// Qdrant for the semantic cache
	qClient, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.QdrantHost,
		Port: cfg.QdrantPort,
	})
	if err != nil {
		log.Fatalf("failed to connect to qdrant: %v", err)
	}
	defer qClient.Close()

	// Elasticsearch for passage retrieval
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticAddr},
	})
	if err != nil {
		log.Fatalf("failed to init elasticsearch client: %v", err)
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.GoogleProject,
		Location: cfg.GoogleLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		log.Fatalf("failed to init genai client: %v", err)
	}

	embedder := client.NewEmbedderFromClient(genaiClient, cfg.EmbeddingModel)

	// Probe the embedder once so the collection dimension always matches the
	// configured model instead of a hardcoded constant.
	probe, err := embedder.CreateEmbedding(ctx, "dimension probe")
	if err != nil {
		log.Fatalf("failed to probe embedding dimension: %v", err)
	}

	cache := store.NewQdrantCache(qClient, cfg.QdrantCollection, uint64(len(probe)))
	if err := cache.InitCollection(ctx); err != nil {
		log.Fatalf("failed to init qdrant collection: %v", err)
	}

	primaryModel := client.NewGeminiGeneratorFromClient(genaiClient, cfg.GenerationModel)
	fallbackModel := client.NewGeminiGeneratorFromClient(genaiClient, cfg.FallbackModel)
	generator := usecase.NewResilientGenerator(primaryModel, fallbackModel, cfg.GenerationTimeout)

	docIndex := index.NewElasticIndex(esClient, cfg.ElasticIndex, embedder)
	limiter := store.NewRedisLimiter(rdb, cfg.UserDailyQueryLimit)

	router := usecase.NewHybridRouter(cache, docIndex, generator, embedder, cfg.SimilarityThreshold, cfg.RetrievalTopK)

	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Wakes up the model instances so the first real query is not the one
		// paying the cold-start cost.
		if _, err := primaryModel.Generate(warmCtx, "."); err != nil {
			log.Printf("[WARMER] generator warm-up failed: %v", err)
		}
		log.Println("[WARMER] pre-warm complete")
	}()

	app := fiber.New(fiber.Config{
		AppName: "CAG Gateway",
	})

	handler := api.NewAskHandler(router, limiter)
	api.SetupRouter(app, handler)

	log.Printf("CAG gateway running on port %s (threshold=%.2f, top_k=%d)", cfg.Port, cfg.SimilarityThreshold, cfg.RetrievalTopK)
	log.Fatal(app.Listen(":" + cfg.Port))
}
