package utils

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ContentInput abstracts the source of a document or a stylesheet.
type ContentInput interface {
	isContentInput()
}

type (
	// InputString is the content itself.
	InputString string
	// InputFilename is a path on the local file system.
	InputFilename string
	// InputReader reads the content from any stream.
	InputReader struct{ io.Reader }
)

func (InputString) isContentInput()   {}
func (InputFilename) isContentInput() {}
func (InputReader) isContentInput()   {}

// ReadContent returns the bytes of [input], and the base URL
// infered from it (empty for strings and readers).
func ReadContent(input ContentInput) ([]byte, string, error) {
	switch input := input.(type) {
	case InputString:
		return []byte(input), "", nil
	case InputFilename:
		b, err := os.ReadFile(string(input))
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", input, err)
		}
		base, err := PathToURL(string(input))
		if err != nil {
			return nil, "", err
		}
		return b, base, nil
	case InputReader:
		b, err := io.ReadAll(input.Reader)
		return b, "", err
	default:
		return nil, "", fmt.Errorf("unsupported input %T", input)
	}
}

// PathToURL returns a file:// URL for the given local path.
func PathToURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// HTMLNode is a compatibility type with html.Node,
// adding accessors used to build boxes.
type HTMLNode html.Node

// AsHtmlNode returns the underlying node.
func (h *HTMLNode) AsHtmlNode() *html.Node { return (*html.Node)(h) }

// Get returns the attribute value, or "".
func (h HTMLNode) Get(name string) string {
	for _, attr := range h.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// HasAttr returns true if the attribute is present, even empty.
func (h HTMLNode) HasAttr(name string) bool {
	for _, attr := range h.Attr {
		if attr.Key == name {
			return true
		}
	}
	return false
}

// GetUrlAttribute resolves the attribute `name` against `baseUrl`.
// An empty string is returned for missing or invalid URLs.
func (h HTMLNode) GetUrlAttribute(name, baseUrl string) string {
	value := strings.TrimSpace(h.Get(name))
	if value == "" {
		return ""
	}
	ref, err := url.Parse(value)
	if err != nil {
		return ""
	}
	if baseUrl == "" {
		return ref.String()
	}
	base, err := url.Parse(baseUrl)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// NodeChildren returns the element children.
func (h *HTMLNode) NodeChildren() []*HTMLNode {
	var out []*HTMLNode
	for child := h.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			out = append(out, (*HTMLNode)(child))
		}
	}
	return out
}

// collectText concatenates the text nodes from `node` up to
// the next element sibling, skipping comments.
func collectText(node *html.Node) string {
	var b strings.Builder
	for ; node != nil && node.Type != html.ElementNode; node = node.NextSibling {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
	}
	return b.String()
}

// Text returns the text found before the first child element.
func (h *HTMLNode) Text() string {
	return collectText(h.FirstChild)
}

// Tail returns the text found after the element, before its next element sibling.
func (h *HTMLNode) Tail() string {
	return collectText(h.NextSibling)
}

// Iter walks the element tree, parents before children.
func (h *HTMLNode) Iter() HtmlIterator {
	return HtmlIterator{toVisit: []*html.Node{h.AsHtmlNode()}}
}

type HtmlIterator struct {
	toVisit []*html.Node
}

func (h HtmlIterator) HasNext() bool {
	return len(h.toVisit) > 0
}

func (h *HtmlIterator) Next() *HTMLNode {
	next := h.toVisit[len(h.toVisit)-1]
	h.toVisit = h.toVisit[:len(h.toVisit)-1]
	var children []*html.Node
	for child := next.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			children = append(children, child)
		}
	}
	for i := len(children) - 1; i >= 0; i-- {
		h.toVisit = append(h.toVisit, children[i])
	}
	return (*HTMLNode)(next)
}
