// Package article turns a single URL into a normalized Article: fetched,
// optionally swapped for its print-friendly variant, run through readability
// extraction and the block extractor.
package article

import (
	"fmt"

	"github.com/hyperifyio/goclippings/internal/block"
)

// Article is the normalized form of one fetched page. Immutable once
// constructed; it lives only for the duration of the request that created it.
type Article struct {
	// Title is never empty; it falls back to the request URL when the page
	// yields none.
	Title string
	// Byline is empty when the page does not declare an author.
	Byline string
	// SourceURL is the original request URL, not a substituted print URL.
	SourceURL string
	Blocks    []block.Block
}

// FetchError reports a network or HTTP failure for a URL. Status is zero when
// the request never produced a response.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports unparsable markup for a URL.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.URL, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractionError reports a page with no extractable article content.
type ExtractionError struct {
	URL string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no extractable content at %s", e.URL)
}
