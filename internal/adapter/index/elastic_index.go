// Package index adapts the external document search engine to the
// DocumentIndex boundary.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"cag-gateway/internal/domain/entity"
	"cag-gateway/internal/domain/repository"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticIndex performs KNN search over pre-chunked document passages stored
// in Elasticsearch. The query is embedded with the same model used everywhere
// else and matched against the passages' content_vector field.
type ElasticIndex struct {
	client   *elasticsearch.Client
	index    string
	embedder repository.Embedder
}

func NewElasticIndex(client *elasticsearch.Client, index string, emb repository.Embedder) *ElasticIndex {
	return &ElasticIndex{
		client:   client,
		index:    index,
		embedder: emb,
	}
}

type knnQuery struct {
	Field         string    `json:"field"`
	QueryVector   []float32 `json:"query_vector"`
	K             int       `json:"k"`
	NumCandidates int       `json:"num_candidates"`
}

type searchBody struct {
	KNN    knnQuery `json:"knn"`
	Source []string `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float32 `json:"_score"`
			Source struct {
				Source  string `json:"source"`
				Content string `json:"content"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticIndex) Search(ctx context.Context, query string, k int) ([]entity.Passage, error) {
	vector, err := s.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieval query embedding failed: %w", err)
	}

	candidates := k * 4
	if candidates < 10 {
		candidates = 10
	}
	body := searchBody{
		KNN: knnQuery{
			Field:         "content_vector",
			QueryVector:   vector,
			K:             k,
			NumCandidates: candidates,
		},
		Source: []string{"source", "content"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
		s.client.Search.WithSize(k),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %v: %w", err, entity.ErrRetrieval)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch search returned %s: %s: %w", res.Status(), msg, entity.ErrRetrieval)
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	passages := make([]entity.Passage, 0, len(parsed.Hits.Hits))
	for i, hit := range parsed.Hits.Hits {
		passages = append(passages, entity.Passage{
			Text:   hit.Source.Content,
			Source: hit.Source.Source,
			Rank:   i + 1,
			Score:  hit.Score,
		})
	}
	return passages, nil
}
