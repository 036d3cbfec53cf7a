package scraper

import (
	"net/url"
	"strings"
)

const (
	DefaultBaseURL = "https://www.youtube.com"

	// channelsOnlyFilter restricts search results to channels.
	channelsOnlyFilter = "EgIQAg=="
)

// Endpoints builds upstream page URLs relative to a base URL.
type Endpoints struct {
	base string
}

func NewEndpoints(baseURL string) Endpoints {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Endpoints{base: strings.TrimRight(baseURL, "/")}
}

func (e Endpoints) Search(query string) string {
	q := url.Values{}
	q.Set("search_query", query)
	q.Set("sp", channelsOnlyFilter)
	return e.base + "/results?" + q.Encode()
}

func (e Endpoints) About(channelID string) string {
	return e.base + "/channel/" + url.PathEscape(channelID) + "/about"
}

func (e Endpoints) Videos(channelID string) string {
	return e.base + "/channel/" + url.PathEscape(channelID) + "/videos"
}

func (e Endpoints) Watch(videoID string) string {
	return e.base + "/watch?v=" + url.QueryEscape(videoID)
}
