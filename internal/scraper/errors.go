package scraper

import (
	"errors"
	"fmt"
)

var (
	ErrUpstreamUnavailable  = errors.New("scraper: upstream unavailable")
	ErrEmbeddedDataNotFound = errors.New("scraper: embedded data not found")
	ErrMalformedPage        = errors.New("scraper: malformed page")
)

// UpstreamError describes a failed fetch. StatusCode is zero for transport
// failures; Body holds a short excerpt of a non-2xx response.
type UpstreamError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("upstream %s: status %d: %s", e.URL, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream %s: status %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("upstream %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("upstream %s: unavailable", e.URL)
	}
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstreamUnavailable}
	}
	return []error{ErrUpstreamUnavailable, e.Err}
}
