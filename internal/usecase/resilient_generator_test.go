package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"cag-gateway/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator fails a fixed number of times before succeeding.
type scriptedGenerator struct {
	failures int
	failWith error
	answer   string
	calls    int
}

func (s *scriptedGenerator) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.calls <= s.failures {
		return "", s.failWith
	}
	return s.answer, nil
}

// slowGenerator blocks until the context is done.
type slowGenerator struct{}

func (slowGenerator) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestResilientGeneratorRetriesTransientErrors(t *testing.T) {
	primary := &scriptedGenerator{failures: 2, failWith: errors.New("503 service unavailable"), answer: "ok"}
	g := NewResilientGenerator(primary, nil, time.Minute)
	g.baseDelay = time.Millisecond

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, primary.calls)
}

func TestResilientGeneratorFallsBackAfterExhaustion(t *testing.T) {
	primary := &scriptedGenerator{failures: 10, failWith: errors.New("429 too many requests")}
	fallback := &scriptedGenerator{answer: "fallback answer"}
	g := NewResilientGenerator(primary, fallback, time.Minute)
	g.baseDelay = time.Millisecond

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", text)
	assert.Equal(t, 3, primary.calls, "primary gets its full retry budget first")
	assert.Equal(t, 1, fallback.calls, "fallback is tried exactly once")
}

func TestResilientGeneratorNonRetryableFailsFast(t *testing.T) {
	primary := &scriptedGenerator{failures: 10, failWith: errors.New("400 invalid argument")}
	fallback := &scriptedGenerator{answer: "fallback answer"}
	g := NewResilientGenerator(primary, fallback, time.Minute)

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls, "client errors are not retried")
	assert.Equal(t, "fallback answer", text)
}

func TestResilientGeneratorTimeout(t *testing.T) {
	g := NewResilientGenerator(slowGenerator{}, nil, 20*time.Millisecond)

	_, err := g.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, entity.ErrGenerationTimeout)
}

func TestResilientGeneratorTimeoutSkipsFallback(t *testing.T) {
	// Once the deadline is gone there is no budget left for a plan B; the
	// caller gets a timeout, not a second slow attempt.
	fallback := &scriptedGenerator{answer: "too late"}
	g := NewResilientGenerator(slowGenerator{}, fallback, 20*time.Millisecond)

	_, err := g.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, entity.ErrGenerationTimeout)
	assert.Zero(t, fallback.calls)
}
