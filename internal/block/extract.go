package block

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/hyperifyio/goclippings/internal/noise"
)

// Extract walks a sanitized HTML fragment depth-first and returns the typed
// blocks in document order. Sibling and child structure from the DOM is
// discarded; only linear reading order survives. Text-bearing blocks are
// passed through the noise classifier and dropped when they match.
//
// Relative image sources are resolved against baseURL; sources that cannot be
// resolved are dropped silently. A fragment that cannot be parsed at all fails
// the whole extraction.
func Extract(fragment string, baseURL *url.URL, cls *noise.Classifier) ([]Block, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	e := &extractor{base: baseURL, cls: cls}
	return e.walk(root, nil), nil
}

// extractor bundles the per-extraction inputs so the traversal can stay a
// plain recursive function with an explicit accumulator.
type extractor struct {
	base *url.URL
	cls  *noise.Classifier
}

// walk applies the traversal rules in priority order and returns the extended
// accumulator. Matched elements terminate recursion for their subtree so
// nested text is never counted twice.
func (e *extractor) walk(n *html.Node, acc []Block) []Block {
	switch n.Type {
	case html.TextNode:
		return e.appendParagraph(acc, n.Data)
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		switch name {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(name[1] - '0')
			if text, ok := e.cleanText(textContent(n)); ok {
				acc = append(acc, Heading{Level: level, Text: text})
			}
			return acc
		case "p", "li", "blockquote":
			return e.appendParagraph(acc, textContent(n))
		case "figure":
			return e.walkFigure(n, acc)
		case "img":
			return e.appendImage(acc, n)
		case "script", "style", "noscript":
			return acc
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		acc = e.walk(c, acc)
	}
	return acc
}

// walkFigure emits the figure's image (if any) followed by its caption as a
// paragraph. Other figure children are ignored.
func (e *extractor) walkFigure(fig *html.Node, acc []Block) []Block {
	if img := findElement(fig, "img"); img != nil {
		acc = e.appendImage(acc, img)
	}
	if caption := findElement(fig, "figcaption"); caption != nil {
		acc = e.appendParagraph(acc, textContent(caption))
	}
	return acc
}

func (e *extractor) appendParagraph(acc []Block, raw string) []Block {
	if text, ok := e.cleanText(raw); ok {
		acc = append(acc, Paragraph{Text: text})
	}
	return acc
}

// appendImage resolves the element's src against the base URL and appends an
// Image block. Missing or malformed sources are dropped, not errors.
func (e *extractor) appendImage(acc []Block, img *html.Node) []Block {
	src := strings.TrimSpace(attr(img, "src"))
	if src == "" || e.base == nil {
		return acc
	}
	ref, err := url.Parse(src)
	if err != nil {
		return acc
	}
	abs := e.base.ResolveReference(ref)
	if !abs.IsAbs() {
		return acc
	}
	return append(acc, Image{SourceURL: abs.String()})
}

// cleanText normalizes raw text and reports whether it survives the noise
// filter. Noise-filtered blocks are never constructed with empty content.
func (e *extractor) cleanText(raw string) (string, bool) {
	text := norm.NFC.String(noise.Collapse(raw))
	if text == "" || e.cls.IsNoise(text) {
		return "", false
	}
	return text, true
}

// attr returns the value of the named attribute of n, or "" if absent.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates all descendant text of n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return b.String()
}

// findElement returns the first descendant element with the given tag name.
func findElement(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		dfs(c)
		if res != nil {
			break
		}
	}
	return res
}
