package entity

import "time"

// EntrySource records how a cache entry was created.
type EntrySource string

const (
	SourcePreseeded EntrySource = "preseeded" // bulk pre-cache load
	SourceDynamic   EntrySource = "dynamic"   // write-through after a cache miss
)

// Provenance tells the caller which path produced an answer, so the UI can
// render latency expectations correctly.
type Provenance string

const (
	ProvenanceCacheHit     Provenance = "CACHE_HIT"
	ProvenanceRAGGenerated Provenance = "RAG_GENERATED"
)

type AskRequest struct {
	UserID   string `json:"user_id"`
	Question string `json:"question"`
}

// CacheEntry is one stored question/answer pair. The vector persisted with it
// is always the embedding of Question, never of Answer. Entries are immutable
// once written; the store only grows, except for a full reset.
type CacheEntry struct {
	ID        string      `json:"id"`
	Question  string      `json:"question"`
	Answer    string      `json:"answer"`
	Source    EntrySource `json:"source"`
	CreatedAt time.Time   `json:"created_at"`
}

// Answer is the router's result for a single query.
type Answer struct {
	Text       string     `json:"answer"`
	Provenance Provenance `json:"provenance"`
	Score      float32    `json:"score,omitempty"` // cache similarity, hits only
	Latency    int64      `json:"latency_ms"`
}

// Passage is a ranked retrieval result, owned by the document index and
// consumed read-only when building a generation prompt.
type Passage struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Rank   int     `json:"rank"`
	Score  float32 `json:"score"`
}

// QAPair is one question/answer unit of a pre-cache source document.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
