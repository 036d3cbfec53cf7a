package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ytscout/ytscout-go/internal/middleware"
	"github.com/ytscout/ytscout-go/internal/model"
	"github.com/ytscout/ytscout-go/internal/service"
)

// ChannelScraper is the pipeline behind the channel routes.
type ChannelScraper interface {
	SearchChannels(ctx context.Context, query, callerID string) ([]model.ChannelSummary, error)
	GetChannelDetail(ctx context.Context, channelID string) (*model.ChannelDetail, error)
	GetChannelVideos(ctx context.Context, channelID string) ([]model.VideoSummary, error)
}

type ChannelHandler struct {
	svc     ChannelScraper
	limiter *middleware.RateLimiter
}

// NewChannelHandler wires the channel routes. limiter is the search
// admission limiter used for the X-RateLimit-* headers; it may be nil.
func NewChannelHandler(svc ChannelScraper, limiter *middleware.RateLimiter) *ChannelHandler {
	return &ChannelHandler{svc: svc, limiter: limiter}
}

// Search handles GET /api/channels/search?q=
func (h *ChannelHandler) Search(c fiber.Ctx) error {
	raw := fiber.Query[string](c, "q")
	query, errMsg := middleware.ValidateQuery(raw)
	if errMsg != "" {
		code := "INVALID_FIELD"
		if strings.TrimSpace(raw) == "" {
			code = "MISSING_QUERY"
		}
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, code, errMsg)
	}

	callerID := middleware.CallerID(c)
	channels, err := h.svc.SearchChannels(c.Context(), query, callerID)
	h.setRateLimitHeaders(c, callerID)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			resetAt := time.Now()
			if h.limiter != nil {
				_, resetAt = h.limiter.Status(callerID)
			}
			return middleware.RateLimitedResponse(c, resetAt)
		}
		return writeServiceError(c, err, "search channels")
	}

	return c.JSON(fiber.Map{"channels": nonNil(channels)})
}

// GetDetail handles GET /api/channels/:channelId
func (h *ChannelHandler) GetDetail(c fiber.Ctx) error {
	channelID, ok := channelIDParam(c)
	if !ok {
		return nil
	}

	detail, err := h.svc.GetChannelDetail(c.Context(), channelID)
	if err != nil {
		return writeServiceError(c, err, "fetch channel detail")
	}
	return c.JSON(detail)
}

// GetVideos handles GET /api/channels/:channelId/videos
func (h *ChannelHandler) GetVideos(c fiber.Ctx) error {
	channelID, ok := channelIDParam(c)
	if !ok {
		return nil
	}

	videos, err := h.svc.GetChannelVideos(c.Context(), channelID)
	if err != nil {
		return writeServiceError(c, err, "fetch channel videos")
	}
	return c.JSON(fiber.Map{"videos": nonNil(videos)})
}

func (h *ChannelHandler) setRateLimitHeaders(c fiber.Ctx, callerID string) {
	if h.limiter == nil || callerID == "" {
		return
	}
	remaining, resetAt := h.limiter.Status(callerID)
	middleware.SetRateLimitHeaders(c, h.limiter.Limit(), remaining, resetAt)
}

// channelIDParam validates the :channelId param, writing the 400 itself
// when it is unusable.
func channelIDParam(c fiber.Ctx) (string, bool) {
	raw := c.Params("channelId")
	channelID, errMsg := middleware.ValidateChannelID(raw)
	if errMsg == "" {
		return channelID, true
	}
	code := "INVALID_FIELD"
	if strings.TrimSpace(raw) == "" {
		code = "MISSING_ID"
	}
	_ = middleware.ErrorResponse(c, fiber.StatusBadRequest, code, errMsg)
	return "", false
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
