package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ytscout/ytscout-go/internal/metrics"
	"github.com/ytscout/ytscout-go/internal/model"
	"github.com/ytscout/ytscout-go/internal/scraper"
	"github.com/ytscout/ytscout-go/pkg/hash"
)

// DefaultAnalyticsConcurrency caps parallel watch-page fetches per listing.
const DefaultAnalyticsConcurrency = 4

// PageFetcher retrieves raw upstream HTML.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Admitter decides whether a caller may issue another search.
type Admitter interface {
	Allow(callerID string) bool
}

// QueryRecorder appends a caller's search to the query log without blocking.
type QueryRecorder interface {
	Record(userID, query string)
}

// ScrapeService runs the fetch, parse, extract and cache pipeline behind the
// three public operations.
type ScrapeService struct {
	fetcher   PageFetcher
	endpoints scraper.Endpoints
	cache     *ResponseCache
	log       zerolog.Logger

	admission   Admitter
	ledger      CreditLedger
	searchCost  int
	queryLog    QueryRecorder
	concurrency int
}

func NewScrapeService(fetcher PageFetcher, endpoints scraper.Endpoints, cache *ResponseCache, log zerolog.Logger) *ScrapeService {
	return &ScrapeService{
		fetcher:     fetcher,
		endpoints:   endpoints,
		cache:       cache,
		log:         log,
		concurrency: DefaultAnalyticsConcurrency,
	}
}

// WithAdmission enables per-caller admission control on SearchChannels.
func (s *ScrapeService) WithAdmission(a Admitter) *ScrapeService {
	s.admission = a
	return s
}

// WithCredits charges identified callers cost credits per search.
func (s *ScrapeService) WithCredits(ledger CreditLedger, cost int) *ScrapeService {
	s.ledger = ledger
	s.searchCost = cost
	return s
}

// WithQueryLog records every identified caller's search.
func (s *ScrapeService) WithQueryLog(q QueryRecorder) *ScrapeService {
	s.queryLog = q
	return s
}

// WithAnalyticsConcurrency sets the watch-page fan-out limit (minimum 1).
func (s *ScrapeService) WithAnalyticsConcurrency(n int) *ScrapeService {
	s.concurrency = max(1, n)
	return s
}

// SearchChannels returns the channels matching query. Input and admission
// are checked before any upstream work.
func (s *ScrapeService) SearchChannels(ctx context.Context, query, callerID string) ([]model.ChannelSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingQuery
	}

	if s.admission != nil && !s.admission.Allow(callerID) {
		metrics.AdmissionRejected()
		s.log.Info().Str("caller", hash.ShortHash(callerID)).Msg("search: admission denied")
		return nil, ErrRateLimited
	}

	if s.ledger != nil && callerID != "" && s.searchCost > 0 {
		if _, err := s.ledger.Deduct(ctx, callerID, s.searchCost); err != nil {
			return nil, fmt.Errorf("charge search: %w", err)
		}
	}
	if s.queryLog != nil && callerID != "" {
		s.queryLog.Record(callerID, query)
	}

	key := "search:" + query
	if cached, ok := cacheLoad[[]model.ChannelSummary](ctx, s.cache, key); ok {
		return cached, nil
	}

	doc, err := s.fetchDocument(ctx, s.endpoints.Search(query))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	channels := scraper.ExtractChannelSummaries(doc)
	cacheStore(ctx, s.cache, key, channels)
	return channels, nil
}

// GetChannelDetail returns the about-page detail of a channel.
func (s *ScrapeService) GetChannelDetail(ctx context.Context, channelID string) (*model.ChannelDetail, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, ErrMissingID
	}

	key := "details:" + channelID
	if cached, ok := cacheLoad[model.ChannelDetail](ctx, s.cache, key); ok {
		return &cached, nil
	}

	body, err := s.fetcher.Fetch(ctx, s.endpoints.About(channelID))
	if err != nil {
		return nil, fmt.Errorf("channel %s about: %w", channelID, err)
	}
	dom, err := scraper.ParsePage(body)
	if err != nil {
		return nil, fmt.Errorf("channel %s about: %w", channelID, err)
	}

	// The description lives in the markup; the embedded document is only a
	// fallback, so its absence is not an error here.
	doc, err := scraper.EmbeddedData(dom)
	if err != nil {
		s.log.Debug().Err(err).Str("channel_id", channelID).Msg("about page without embedded data")
	}

	detail := scraper.ExtractChannelDetail(doc, dom)
	cacheStore(ctx, s.cache, key, detail)
	return &detail, nil
}

// GetChannelVideos lists a channel's videos, each merged with analytics from
// its watch page. A failed watch page degrades that video to default
// analytics; it never fails the listing.
func (s *ScrapeService) GetChannelVideos(ctx context.Context, channelID string) ([]model.VideoSummary, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, ErrMissingID
	}

	key := "videos:" + channelID
	if cached, ok := cacheLoad[[]model.VideoSummary](ctx, s.cache, key); ok {
		return cached, nil
	}

	doc, err := s.fetchDocument(ctx, s.endpoints.Videos(channelID))
	if err != nil {
		return nil, fmt.Errorf("channel %s videos: %w", channelID, err)
	}

	videos := scraper.ExtractVideoSummaries(doc)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range videos {
		g.Go(func() error {
			videos[i].VideoAnalytics = s.videoAnalytics(gctx, videos[i].VideoID)
			return nil
		})
	}
	_ = g.Wait()

	// A cancelled request would otherwise cache a listing of defaults.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("channel_id", channelID).
		Int("videos", len(videos)).
		Dur("analytics_ms", time.Since(start)).
		Msg("channel videos scraped")

	cacheStore(ctx, s.cache, key, videos)
	return videos, nil
}

func (s *ScrapeService) videoAnalytics(ctx context.Context, videoID string) model.VideoAnalytics {
	doc, err := s.fetchDocument(ctx, s.endpoints.Watch(videoID))
	if err != nil {
		metrics.AnalyticsDegraded()
		s.log.Warn().Err(err).Str("video_id", videoID).Msg("analytics degraded to defaults")
		return model.DefaultVideoAnalytics()
	}
	return scraper.ExtractVideoAnalytics(doc)
}

func (s *ScrapeService) fetchDocument(ctx context.Context, rawURL string) (scraper.Document, error) {
	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return scraper.Document{}, err
	}
	return scraper.ParseEmbedded(body)
}

// IsParseFailure reports whether err means the upstream page format was not understood.
func IsParseFailure(err error) bool {
	return errors.Is(err, scraper.ErrEmbeddedDataNotFound) || errors.Is(err, scraper.ErrMalformedPage)
}
