package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ytscout/ytscout-go/internal/middleware"
	"github.com/ytscout/ytscout-go/internal/model"
	"github.com/ytscout/ytscout-go/internal/scraper"
	"github.com/ytscout/ytscout-go/internal/service"
)

// stubScraper returns canned results and remembers its last inputs.
type stubScraper struct {
	channels []model.ChannelSummary
	detail   *model.ChannelDetail
	videos   []model.VideoSummary
	err      error

	lastQuery  string
	lastCaller string
	lastID     string
	admit      func(callerID string) bool
}

func (s *stubScraper) SearchChannels(_ context.Context, query, callerID string) ([]model.ChannelSummary, error) {
	s.lastQuery, s.lastCaller = query, callerID
	if s.admit != nil && !s.admit(callerID) {
		return nil, service.ErrRateLimited
	}
	return s.channels, s.err
}

func (s *stubScraper) GetChannelDetail(_ context.Context, channelID string) (*model.ChannelDetail, error) {
	s.lastID = channelID
	return s.detail, s.err
}

func (s *stubScraper) GetChannelVideos(_ context.Context, channelID string) ([]model.VideoSummary, error) {
	s.lastID = channelID
	return s.videos, s.err
}

func newChannelApp(svc ChannelScraper, limiter *middleware.RateLimiter) *fiber.App {
	h := NewChannelHandler(svc, limiter)
	app := fiber.New()
	app.Get("/api/channels/search", h.Search)
	app.Get("/api/channels/:channelId", h.GetDetail)
	app.Get("/api/channels/:channelId/videos", h.GetVideos)
	return app
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return eb.Error.Code
}

func TestSearch_ReturnsChannels(t *testing.T) {
	stub := &stubScraper{channels: []model.ChannelSummary{{ChannelID: "UC1"}, {ChannelID: "UC2"}}}
	app := newChannelApp(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/channels/search?q=lofi+beats", nil)
	req.Header.Set(middleware.CallerHeader, "user-1")
	resp, body := doRequest(t, app, req)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", resp.StatusCode, body)
	}
	var got struct {
		Channels []model.ChannelSummary `json:"channels"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Channels) != 2 {
		t.Errorf("channels = %d, want 2", len(got.Channels))
	}
	if stub.lastQuery != "lofi beats" || stub.lastCaller != "user-1" {
		t.Errorf("forwarded query=%q caller=%q", stub.lastQuery, stub.lastCaller)
	}
}

func TestSearch_EmptyResultIsArray(t *testing.T) {
	app := newChannelApp(&stubScraper{}, nil)

	_, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/channels/search?q=nothing", nil))

	if string(body) != `{"channels":[]}` {
		t.Errorf("body = %s, want empty channels array", body)
	}
}

func TestSearch_InputErrors(t *testing.T) {
	long := make([]byte, middleware.MaxQueryLen+1)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"missing", "/api/channels/search", "MISSING_QUERY"},
		{"blank", "/api/channels/search?q=%20%20", "MISSING_QUERY"},
		{"too long", "/api/channels/search?q=" + string(long), "INVALID_FIELD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubScraper{}
			resp, body := doRequest(t, newChannelApp(stub, nil), httptest.NewRequest(http.MethodGet, tt.target, nil))

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if code := errorCode(t, body); code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
			if stub.lastQuery != "" {
				t.Error("service should not be called on input errors")
			}
		})
	}
}

func TestSearch_RateLimited(t *testing.T) {
	limiter := middleware.NewSearchAdmissionLimiter(2, time.Minute)
	stub := &stubScraper{admit: limiter.Allow}
	app := newChannelApp(stub, limiter)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/channels/search?q=lofi", nil)
		req.Header.Set(middleware.CallerHeader, "user-1")
		resp, _ := doRequest(t, app, req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, resp.StatusCode)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/channels/search?q=lofi", nil)
	req.Header.Set(middleware.CallerHeader, "user-1")
	resp, body := doRequest(t, app, req)

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if code := errorCode(t, body); code != "RATE_LIMITED" {
		t.Errorf("code = %q, want RATE_LIMITED", code)
	}
	if got := resp.Header.Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", got)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}

	// Anonymous callers are not limited and get no rate-limit headers.
	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/channels/search?q=lofi", nil))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("anonymous status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-RateLimit-Limit") != "" {
		t.Error("anonymous response should not carry rate-limit headers")
	}
}

func TestChannelRoutes_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"upstream", &scraper.UpstreamError{URL: "u", StatusCode: 503}, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"parse", scraper.ErrEmbeddedDataNotFound, http.StatusBadGateway, "PARSE_FAILURE"},
		{"credits", service.ErrInsufficientCredits, http.StatusPaymentRequired, "INSUFFICIENT_CREDITS"},
		{"no account", service.ErrAccountNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"cancelled", context.Canceled, 499, "REQUEST_CANCELLED"},
		{"wrapped cancel", fmt.Errorf("fetch u: %w", context.Canceled), 499, "REQUEST_CANCELLED"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newChannelApp(&stubScraper{err: tt.err}, nil)

			resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/channels/UC1/videos", nil))

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if code := errorCode(t, body); code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestGetDetail(t *testing.T) {
	stub := &stubScraper{detail: &model.ChannelDetail{
		Description:   "Beats.",
		SocialLinks:   map[string]string{model.PlatformInstagram: "https://instagram.com/x"},
		HasMembership: true,
	}}
	app := newChannelApp(stub, nil)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/channels/UC_abc-1", nil))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got model.ChannelDetail
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.HasMembership || got.SocialLinks[model.PlatformInstagram] == "" {
		t.Errorf("detail = %+v", got)
	}
	if stub.lastID != "UC_abc-1" {
		t.Errorf("lastID = %q", stub.lastID)
	}
}

func TestGetDetail_InvalidID(t *testing.T) {
	stub := &stubScraper{}
	app := newChannelApp(stub, nil)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/channels/bad$id", nil))

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if code := errorCode(t, body); code != "INVALID_FIELD" {
		t.Errorf("code = %q, want INVALID_FIELD", code)
	}
	if stub.lastID != "" {
		t.Error("service should not be called for an invalid id")
	}
}

func TestGetVideos(t *testing.T) {
	stub := &stubScraper{videos: []model.VideoSummary{{
		VideoID:        "v1",
		VideoAnalytics: model.DefaultVideoAnalytics(),
	}}}
	app := newChannelApp(stub, nil)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/channels/UC1/videos", nil))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	want := `{"videos":[{"videoId":"v1","likeCountText":"N/A","commentsCount":0}]}`
	if string(body) != want {
		t.Errorf("body = %s, want %s", body, want)
	}
}

func TestSanitizeEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/channels/search", "/api/channels/search"},
		{"/api/channels/UC123", "/api/channels/:channelId"},
		{"/api/channels/UC123/videos", "/api/channels/:channelId/videos"},
		{"/api/credits", "/api/credits"},
		{"/health/live", "/health/live"},
	}
	for _, tt := range tests {
		if got := sanitizeEndpoint(tt.path); got != tt.want {
			t.Errorf("sanitizeEndpoint(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
