package scraper

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Document is a parsed embedded data document. Every lookup is tolerant: a
// missing step anywhere in a path yields an empty Node instead of an error.
type Document struct {
	root gjson.Result
}

func NewDocument(raw []byte) Document {
	return Document{root: gjson.ParseBytes(raw)}
}

// Get resolves a dot-separated path from the document root.
func (d Document) Get(path string) Node {
	return Node{r: d.root.Get(path)}
}

// Exists reports whether the document holds any data.
func (d Document) Exists() bool {
	return d.root.Exists()
}

// Node is one value inside a Document.
type Node struct {
	r gjson.Result
}

func (n Node) Get(path string) Node {
	if !n.r.Exists() {
		return Node{}
	}
	return Node{r: n.r.Get(path)}
}

func (n Node) Exists() bool { return n.r.Exists() }

func (n Node) IsObject() bool { return n.r.IsObject() }

// String returns the value as a string, or "" for objects and arrays.
func (n Node) String() string {
	if n.r.IsObject() || n.r.IsArray() {
		return ""
	}
	return n.r.String()
}

func (n Node) Bool() bool { return n.r.Bool() }

// Array returns the elements of an array node; any other node yields nil.
func (n Node) Array() []Node {
	if !n.r.IsArray() {
		return nil
	}
	items := n.r.Array()
	out := make([]Node, len(items))
	for i, it := range items {
		out[i] = Node{r: it}
	}
	return out
}

// Text flattens the formatted-text shapes used throughout the page data:
// {"simpleText": ...}, {"runs": [{"text": ...}]} and {"content": ...}.
func (n Node) Text() string {
	if !n.r.Exists() {
		return ""
	}
	if s := n.Get("simpleText").String(); s != "" {
		return s
	}
	if runs := n.Get("runs").Array(); len(runs) > 0 {
		var b strings.Builder
		for _, r := range runs {
			b.WriteString(r.Get("text").String())
		}
		return b.String()
	}
	if s := n.Get("content").String(); s != "" {
		return s
	}
	return n.String()
}

// AccessibilityLabel returns the screen-reader label attached to a text node.
func (n Node) AccessibilityLabel() string {
	return n.Get("accessibility.accessibilityData.label").String()
}
