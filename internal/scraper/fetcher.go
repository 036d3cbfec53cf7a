package scraper

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"

	"github.com/ytscout/ytscout-go/internal/metrics"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	maxBodyBytes     = 4 << 20
	maxErrorExcerpt  = 512
)

// FetcherConfig configures the upstream HTTP client.
type FetcherConfig struct {
	Timeout time.Duration
	// Proxy is an http, https or socks5 URL. Empty means direct.
	Proxy string
	// RequestsPerSecond caps outbound requests across all callers. Zero disables the cap.
	RequestsPerSecond float64
	UserAgent         string
}

// Fetcher retrieves raw HTML documents. It never retries: a failed fetch is
// reported to the caller as an *UpstreamError.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       zerolog.Logger
}

// defaultTransport returns an http.Transport tuned for repeated page loads
// against a single host.
func defaultTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
}

// NewFetcher builds a Fetcher from cfg.
func NewFetcher(cfg FetcherConfig, log zerolog.Logger) (*Fetcher, error) {
	transport := defaultTransport()
	if err := applyProxy(transport, cfg.Proxy); err != nil {
		return nil, err
	}

	jar, _ := cookiejar.New(nil)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Fetcher{
		client: &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: transport,
		},
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: ua,
		log:       log,
	}, nil
}

// applyProxy configures an HTTP/HTTPS or SOCKS5 proxy on t.
func applyProxy(t *http.Transport, proxyAddr string) error {
	if proxyAddr == "" {
		return nil
	}

	u, err := url.Parse(proxyAddr)
	if err != nil {
		return fmt.Errorf("parse proxy url: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		t.Proxy = http.ProxyURL(u)
	case "socks5":
		var auth *proxy.Auth
		if u.User != nil {
			pass, _ := u.User.Password()
			auth = &proxy.Auth{User: u.User.Username(), Password: pass}
		}
		dialer, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
		if err != nil {
			return fmt.Errorf("socks5 proxy: %w", err)
		}
		dc, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return fmt.Errorf("socks5: context dialer not supported")
		}
		t.DialContext = dc.DialContext
	default:
		return fmt.Errorf("unsupported proxy scheme: %s", u.Scheme)
	}
	return nil
}

// Fetch downloads rawURL and returns the response body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		if cerr := callerDone(ctx, rawURL); cerr != nil {
			return nil, cerr
		}
		metrics.UpstreamFetch("error")
		return nil, &UpstreamError{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if cerr := callerDone(ctx, rawURL); cerr != nil {
			return nil, cerr
		}
		metrics.UpstreamFetch("error")
		return nil, &UpstreamError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorExcerpt))
		metrics.UpstreamFetch("status")
		return nil, &UpstreamError{URL: rawURL, StatusCode: resp.StatusCode, Body: string(excerpt)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamFetch("error")
		return nil, &UpstreamError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	metrics.UpstreamFetch("ok")
	f.log.Debug().
		Str("url", rawURL).
		Dur("duration_ms", time.Since(start)).
		Int("bytes", len(body)).
		Msg("upstream fetch")
	return body, nil
}

// callerDone returns the caller's context error, if any. A fetch abandoned by
// its caller says nothing about the upstream, so it is not an UpstreamError.
func callerDone(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		metrics.UpstreamFetch("cancelled")
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return nil
}
