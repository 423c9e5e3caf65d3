package api

import (
	"context"
	"errors"
	"strings"

	"cag-gateway/internal/domain/entity"
	"cag-gateway/internal/domain/repository"

	"github.com/gofiber/fiber/v2"
)

// Answerer is the routing engine as the delivery layer sees it.
type Answerer interface {
	Answer(ctx context.Context, query string) (*entity.Answer, error)
}

type AskHandler struct {
	router  Answerer
	limiter repository.QueryLimiter
}

func NewAskHandler(router Answerer, limiter repository.QueryLimiter) *AskHandler {
	return &AskHandler{router: router, limiter: limiter}
}

func (h *AskHandler) HandleAsk(c *fiber.Ctx) error {
	var req entity.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question must not be empty"})
	}

	userID := req.UserID
	if userID == "" {
		userID = c.IP()
	}
	allowed, err := h.limiter.CheckLimit(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal gateway error"})
	}
	if !allowed {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": entity.ErrRateLimitExceeded.Error()})
	}

	answer, err := h.router.Answer(c.Context(), req.Question)
	if err != nil {
		return h.mapError(c, err)
	}

	// Quota counts answered questions; a failed request costs nothing.
	_ = h.limiter.Increment(c.Context(), userID)

	// Lets the UI distinguish the fast cached path from a slow generated one.
	c.Set("X-Cache-Hit", "false")
	if answer.Provenance == entity.ProvenanceCacheHit {
		c.Set("X-Cache-Hit", "true")
	}
	return c.Status(fiber.StatusOK).JSON(answer)
}

// mapError translates domain errors into HTTP status codes at the delivery
// boundary, keeping the usecase layer transport-free.
func (h *AskHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, entity.ErrEmbedding), errors.Is(err, entity.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrGenerationTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, entity.ErrRetrieval), errors.Is(err, entity.ErrStoreUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal gateway error"})
	}
}
