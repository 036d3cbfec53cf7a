package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// embeddedDataMarker precedes the page's single canonical data assignment.
const embeddedDataMarker = "ytInitialData"

// ParsePage parses an HTML document into a DOM tree.
func ParsePage(body []byte) (*goquery.Document, error) {
	dom, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}
	return dom, nil
}

// EmbeddedData locates the first script block mentioning ytInitialData and
// decodes the JSON object that starts at its first '{'. Later blocks are
// never consulted, even when the first one does not decode.
func EmbeddedData(dom *goquery.Document) (Document, error) {
	var (
		found bool
		blob  string
	)
	dom.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, embeddedDataMarker) {
			return true
		}
		found = true
		if i := strings.IndexByte(text, '{'); i >= 0 {
			blob = text[i:]
		}
		return false
	})

	if !found {
		return Document{}, fmt.Errorf("%w: no script mentions %s", ErrEmbeddedDataNotFound, embeddedDataMarker)
	}
	if blob == "" {
		return Document{}, fmt.Errorf("%w: %s script has no object literal", ErrEmbeddedDataNotFound, embeddedDataMarker)
	}

	// The decoder stops after the first complete value, so a trailing ";"
	// or further statements in the same block are ignored.
	var raw json.RawMessage
	if err := json.NewDecoder(strings.NewReader(blob)).Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("%w: decode %s: %v", ErrEmbeddedDataNotFound, embeddedDataMarker, err)
	}
	return NewDocument(raw), nil
}

// ParseEmbedded is ParsePage followed by EmbeddedData.
func ParseEmbedded(body []byte) (Document, error) {
	dom, err := ParsePage(body)
	if err != nil {
		return Document{}, err
	}
	return EmbeddedData(dom)
}
