package store

import (
	"context"
	"fmt"
	"time"

	"cag-gateway/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// QdrantCache persists cache entries as points in a cosine-distance Qdrant
// collection: the vector is the question embedding, the payload carries the
// question, answer, origin and creation time. Appends only; Reset drops the
// whole collection.
type QdrantCache struct {
	client         *qdrant.Client
	collectionName string
	vectorDim      uint64
}

func NewQdrantCache(client *qdrant.Client, collectionName string, vectorDim uint64) *QdrantCache {
	return &QdrantCache{
		client:         client,
		collectionName: collectionName,
		vectorDim:      vectorDim,
	}
}

// InitCollection creates the collection if it does not exist yet. Safe to call
// at every startup.
func (s *QdrantCache) InitCollection(ctx context.Context) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound {
		return storeErr("get collection info", err)
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorDim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return storeErr("create collection", err)
	}
	return nil
}

// Lookup runs a nearest-neighbor query capped at one result with the score
// threshold applied server-side. No point at or above the threshold, or an
// empty collection, is a miss, not an error.
func (s *QdrantCache) Lookup(ctx context.Context, vector []float32, threshold float32) (*entity.CacheEntry, float32, error) {
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
		ScoreThreshold: &threshold,
	})
	if err != nil {
		return nil, 0, storeErr("query", err)
	}
	if len(res) == 0 {
		return nil, 0, nil
	}

	hit := res[0]
	payload := hit.Payload

	entry := &entity.CacheEntry{
		ID:        hit.Id.GetUuid(),
		Question:  payload["question"].GetStringValue(),
		Answer:    payload["answer"].GetStringValue(),
		Source:    entity.EntrySource(payload["source"].GetStringValue()),
		CreatedAt: time.Unix(payload["created_at"].GetIntegerValue(), 0),
	}
	return entry, hit.Score, nil
}

// Insert appends one entry. Duplicate questions get distinct point IDs and
// coexist; callers never update in place.
func (s *QdrantCache) Insert(ctx context.Context, entry *entity.CacheEntry, vector []float32) error {
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}

	payload := map[string]any{
		"question":   entry.Question,
		"answer":     entry.Answer,
		"source":     string(entry.Source),
		"created_at": entry.CreatedAt.Unix(),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	if err != nil {
		return storeErr("upsert", err)
	}
	return nil
}

// Reset drops and recreates the collection. Irreversible; administrative use
// only, assumed not to run concurrently with live traffic.
func (s *QdrantCache) Reset(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.collectionName); err != nil {
		st, ok := status.FromError(err)
		if !ok || st.Code() != codes.NotFound {
			return storeErr("delete collection", err)
		}
	}
	return s.InitCollection(ctx)
}

// storeErr wraps backend failures so callers can match entity.ErrStoreUnavailable
// without knowing the store is gRPC-backed.
func storeErr(op string, err error) error {
	return fmt.Errorf("qdrant %s: %v: %w", op, err, entity.ErrStoreUnavailable)
}
