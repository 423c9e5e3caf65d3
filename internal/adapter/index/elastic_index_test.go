package index

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"cag-gateway/internal/domain/entity"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEmbedder struct{ vector []float32 }

func (s staticEmbedder) CreateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return s.vector, nil
}

// cannedTransport answers every request with a fixed status and body,
// recording the last request body for inspection.
type cannedTransport struct {
	status   int
	body     string
	lastBody []byte
}

func (t *cannedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		t.lastBody, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: t.status,
		Header: http.Header{
			"X-Elastic-Product": []string{"Elasticsearch"},
			"Content-Type":      []string{"application/json"},
		},
		Body: io.NopCloser(strings.NewReader(t.body)),
	}, nil
}

func newTestIndex(t *testing.T, transport *cannedTransport) *ElasticIndex {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return NewElasticIndex(client, "customs-docs-v1", staticEmbedder{vector: []float32{0.1, 0.2, 0.3}})
}

func TestSearchReturnsRankedPassages(t *testing.T) {
	transport := &cannedTransport{status: 200, body: `{
		"hits": {"hits": [
			{"_score": 0.92, "_source": {"source": "faq.pdf", "content": "면세 한도는 US$800입니다."}},
			{"_score": 0.81, "_source": {"source": "guide.pdf", "content": "초과분에는 관세가 부과됩니다."}}
		]}
	}`}
	idx := newTestIndex(t, transport)

	passages, err := idx.Search(context.Background(), "여행자 면세 한도는?", 3)
	require.NoError(t, err)
	require.Len(t, passages, 2)

	assert.Equal(t, entity.Passage{Text: "면세 한도는 US$800입니다.", Source: "faq.pdf", Rank: 1, Score: 0.92}, passages[0])
	assert.Equal(t, 2, passages[1].Rank)

	// The KNN request carries the query embedding and the configured k.
	var sent struct {
		KNN struct {
			Field         string    `json:"field"`
			QueryVector   []float32 `json:"query_vector"`
			K             int       `json:"k"`
			NumCandidates int       `json:"num_candidates"`
		} `json:"knn"`
	}
	require.NoError(t, json.Unmarshal(transport.lastBody, &sent))
	assert.Equal(t, "content_vector", sent.KNN.Field)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, sent.KNN.QueryVector)
	assert.Equal(t, 3, sent.KNN.K)
	assert.GreaterOrEqual(t, sent.KNN.NumCandidates, 10)
}

func TestSearchEmptyResult(t *testing.T) {
	transport := &cannedTransport{status: 200, body: `{"hits": {"hits": []}}`}
	idx := newTestIndex(t, transport)

	passages, err := idx.Search(context.Background(), "오늘 날씨 어때?", 3)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestSearchServerErrorIsRetrievalError(t *testing.T) {
	transport := &cannedTransport{status: 503, body: `{"error": "unavailable"}`}
	idx := newTestIndex(t, transport)

	_, err := idx.Search(context.Background(), "관세 문의", 3)
	require.ErrorIs(t, err, entity.ErrRetrieval)
}
