package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ytscout/ytscout-go/internal/model"
	"github.com/ytscout/ytscout-go/internal/repository"
	"github.com/ytscout/ytscout-go/internal/scraper"
)

const testBaseURL = "https://yt.test"

var testEndpoints = scraper.NewEndpoints(testBaseURL)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeFetcher serves canned pages by URL and counts requests.
type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string][]byte
	errs   map[string]error
	calls  map[string]int
	total  int
	before func(ctx context.Context, url string)
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string][]byte),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.before != nil {
		f.before(ctx, url)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	f.total++

	if err := ctx.Err(); err != nil {
		return nil, &scraper.UpstreamError{URL: url, Err: err}
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if body, ok := f.pages[url]; ok {
		return body, nil
	}
	return nil, &scraper.UpstreamError{URL: url, StatusCode: 404}
}

func (f *fakeFetcher) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *fakeFetcher) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

// admitFunc adapts a function to Admitter.
type admitFunc func(callerID string) bool

func (f admitFunc) Allow(callerID string) bool { return f(callerID) }

// memLedger is an in-memory CreditLedger.
type memLedger struct {
	mu       sync.Mutex
	balances map[string]int
}

func newMemLedger(balances map[string]int) *memLedger {
	return &memLedger{balances: balances}
}

func (l *memLedger) Balance(_ context.Context, userID string) (*model.CreditAccount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.balances[userID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return &model.CreditAccount{UserID: userID, Balance: b}, nil
}

func (l *memLedger) Deduct(_ context.Context, userID string, amount int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.balances[userID]
	if !ok {
		return 0, repository.ErrAccountNotFound
	}
	if b < amount {
		return 0, repository.ErrInsufficientCredits
	}
	l.balances[userID] = b - amount
	return b - amount, nil
}

func (l *memLedger) ResetAll(_ context.Context, amount int) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.balances {
		l.balances[k] = amount
	}
	return int64(len(l.balances)), nil
}

// recordingLog captures query log entries.
type recordingLog struct {
	mu      sync.Mutex
	entries []model.QueryLogEntry
	failOn  string
}

func (r *recordingLog) Record(userID, query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, model.QueryLogEntry{UserID: userID, Query: query})
}

func (r *recordingLog) Insert(_ context.Context, e model.QueryLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != "" && e.Query == r.failOn {
		return errors.New("insert failed")
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingLog) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func page(json string) []byte {
	return []byte(fmt.Sprintf(`<html><body><script>var ytInitialData = %s;</script></body></html>`, json))
}

func searchPage(channelIDs ...string) []byte {
	items := ""
	for i, id := range channelIDs {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"channelRenderer": {"channelId": %q, "title": {"simpleText": "Channel %s"}}}`, id, id)
	}
	items += `,{"videoRenderer": {"videoId": "unrelated1"}},{"shelfRenderer": {}}`
	return page(`{"contents": {"twoColumnSearchResultsRenderer": {"primaryContents": {"sectionListRenderer": {"contents": [
		{"itemSectionRenderer": {"contents": [` + items + `]}}]}}}}}`)
}

func videosPage(videoIDs ...string) []byte {
	items := ""
	for i, id := range videoIDs {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"richItemRenderer": {"content": {"videoRenderer": {"videoId": %q, "title": {"simpleText": "Video %s"}}}}}`, id, id)
	}
	return page(`{"contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
		{"tabRenderer": {"content": {"richGridRenderer": {"contents": [` + items + `]}}}}]}}}`)
}

func watchPage(likes string, comments string) []byte {
	return page(fmt.Sprintf(`{"contents": {"twoColumnWatchNextResults": {"results": {"results": {"contents": [
		{"videoPrimaryInfoRenderer": {"videoActions": {"menuRenderer": {"topLevelButtons": [
			{"segmentedLikeDislikeButtonRenderer": {"likeButton": {"toggleButtonRenderer": {"defaultText": {"simpleText": %q}}}}}
		]}}}},
		{"itemSectionRenderer": {"sectionIdentifier": "comment-item-section", "contents": [
			{"commentsEntryPointHeaderRenderer": {"commentCount": {"simpleText": %q}}}
		]}}
	]}}}}}`, likes, comments))
}
