package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"cag-gateway/internal/domain/entity"
	"cag-gateway/internal/domain/repository"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// ResilientGenerator wraps an AnswerGenerator with a hard per-call timeout,
// bounded retries with backoff for transient provider errors, and a one-shot
// fallback model. Deadline expiry surfaces as entity.ErrGenerationTimeout so
// callers never see a partial or empty answer.
type ResilientGenerator struct {
	primary    repository.AnswerGenerator
	fallback   repository.AnswerGenerator
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
}

func NewResilientGenerator(primary, fallback repository.AnswerGenerator, timeout time.Duration) *ResilientGenerator {
	return &ResilientGenerator{
		primary:    primary,
		fallback:   fallback,
		maxRetries: 2, // three attempts total for primary
		baseDelay:  500 * time.Millisecond,
		timeout:    timeout,
	}
}

func (r *ResilientGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	// Scoped deadline so one slow generation cannot hang the request forever.
	genCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.executeWithRetry(genCtx, r.primary, prompt)
	if err == nil {
		return text, nil
	}
	if isTimeout(err) {
		return "", fmt.Errorf("generation deadline (%s) expired: %w", r.timeout, entity.ErrGenerationTimeout)
	}

	fiberlog.Warnf("primary generator exhausted, switching to fallback: %v", err)

	if r.fallback == nil {
		return "", err
	}
	text, err = r.fallback.Generate(genCtx, prompt)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("generation deadline (%s) expired: %w", r.timeout, entity.ErrGenerationTimeout)
		}
		return "", fmt.Errorf("both primary and fallback generation failed: %w", err)
	}
	return text, nil
}

func (r *ResilientGenerator) executeWithRetry(ctx context.Context, g repository.AnswerGenerator, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		text, err := g.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !r.isRetryable(err) || attempt == r.maxRetries {
			break
		}

		wait := r.calculateBackoff(attempt)
		select {
		case <-time.After(wait):
			continue
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, entity.ErrGenerationTimeout)
}

func (r *ResilientGenerator) isRetryable(err error) bool {
	if isTimeout(err) || errors.Is(err, context.Canceled) {
		return false
	}
	msg := strings.ToLower(err.Error())
	// Rate limits (429) and server errors (5xx) are worth another attempt.
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded")
}

func (r *ResilientGenerator) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.baseDelay) * float64(int(1)<<attempt)
	jitter := (rand.Float64() * 0.2) * backoff // 20% jitter
	return time.Duration(backoff + jitter)
}
