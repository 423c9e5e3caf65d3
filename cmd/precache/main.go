// Command precache bulk-loads pre-seeded question/answer pairs into the
// semantic cache. It runs out of band, never as part of the live query path.
//
// Loading appends: running it twice without -reset stores every pair twice.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"cag-gateway/internal/adapter/client"
	"cag-gateway/internal/adapter/store"
	"cag-gateway/internal/config"
	"cag-gateway/internal/domain/entity"
	"cag-gateway/internal/seed"
	"cag-gateway/internal/usecase"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/genai"
)

func main() {
	var (
		file   = flag.String("file", "", "Q&A source document (required)")
		format = flag.String("format", "", "source format: jsonl or text (default: by file extension)")
		reset  = flag.Bool("reset", false, "clear the cache before loading")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("missing required -file flag")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx := context.Background()

	pairs, err := parseSource(*file, *format)
	if err != nil {
		log.Fatalf("failed to parse %s: %v", *file, err)
	}
	log.Printf("parsed %d Q&A pairs from %s", len(pairs), *file)

	qClient, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.QdrantHost,
		Port: cfg.QdrantPort,
	})
	if err != nil {
		log.Fatalf("failed to connect to qdrant: %v", err)
	}
	defer qClient.Close()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.GoogleProject,
		Location: cfg.GoogleLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		log.Fatalf("failed to init genai client: %v", err)
	}

	embedder := client.NewEmbedderFromClient(genaiClient, cfg.EmbeddingModel)
	probe, err := embedder.CreateEmbedding(ctx, "dimension probe")
	if err != nil {
		log.Fatalf("failed to probe embedding dimension: %v", err)
	}

	cache := store.NewQdrantCache(qClient, cfg.QdrantCollection, uint64(len(probe)))
	if err := cache.InitCollection(ctx); err != nil {
		log.Fatalf("failed to init qdrant collection: %v", err)
	}

	preloader := usecase.NewPreloader(cache, embedder)

	if *reset {
		if err := preloader.Reset(ctx); err != nil {
			log.Fatalf("failed to reset cache: %v", err)
		}
		log.Println("cache reset")
	}

	stored, err := preloader.Preload(ctx, pairs)
	if err != nil {
		log.Fatalf("preload failed after %d entries: %v", stored, err)
	}
	log.Printf("preloaded %d entries into %s", stored, cfg.QdrantCollection)
}

func parseSource(path, format string) ([]entity.QAPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == "" {
		if filepath.Ext(path) == ".jsonl" {
			format = "jsonl"
		} else {
			format = "text"
		}
	}
	if format == "jsonl" {
		return seed.ParseJSONL(f)
	}
	return seed.ParseText(f)
}
