package entity

import "errors"

// Standard domain errors
var (
	ErrEmbedding         = errors.New("embedding failed: empty input or model budget exceeded")
	ErrStoreUnavailable  = errors.New("semantic cache store is unavailable")
	ErrGenerationTimeout = errors.New("answer generation exceeded the configured timeout")
	ErrRetrieval         = errors.New("document index is unreachable")
	ErrRateLimitExceeded = errors.New("rate limit exceeded: daily query quota used up")
	ErrInvalidRequest    = errors.New("invalid request parameters")
)
