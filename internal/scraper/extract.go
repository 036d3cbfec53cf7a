package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

var numericRunRe = regexp.MustCompile(`\d[\d,.]*`)

// collect projects each node with fn, dropping nodes fn rejects. A panic while
// projecting one node drops that node only.
func collect[T any](nodes []Node, fn func(Node) (T, bool)) []T {
	out := make([]T, 0, len(nodes))
	for _, n := range nodes {
		if item, ok := projectItem(n, fn); ok {
			out = append(out, item)
		}
	}
	return out
}

func projectItem[T any](n Node, fn func(Node) (T, bool)) (item T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			item, ok = zero, false
		}
	}()
	return fn(n)
}

// thumbnailURL picks the last (largest) thumbnail and makes protocol-relative
// URLs absolute.
func thumbnailURL(n Node) string {
	thumbs := n.Get("thumbnails").Array()
	if len(thumbs) == 0 {
		return ""
	}
	u := thumbs[len(thumbs)-1].Get("url").String()
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	return u
}

// ParseCount reads the first numeric run in s, ignoring separators, e.g.
// "1,234 Comments" -> 1234. Text without digits yields 0.
func ParseCount(s string) int {
	run := numericRunRe.FindString(s)
	if run == "" {
		return 0
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, run)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
