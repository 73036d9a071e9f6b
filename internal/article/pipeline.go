package article

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goclippings/internal/block"
	"github.com/hyperifyio/goclippings/internal/fetch"
	"github.com/hyperifyio/goclippings/internal/noise"
)

// PageGetter is the minimal fetch surface the pipeline needs; it keeps the
// package decoupled from the concrete client and simplifies tests.
type PageGetter interface {
	GetHTML(ctx context.Context, url string) ([]byte, error)
}

// Pipeline fetches one URL and normalizes it into an Article.
type Pipeline struct {
	Client PageGetter
	Noise  *noise.Classifier
}

// Fetch retrieves rawURL, substitutes a print-friendly variant when the page
// advertises one (at most one substitution, the print page itself is never
// probed for a further alternate), extracts the main content and converts it
// to blocks. Failures map onto FetchError, ParseError or ExtractionError.
func (p *Pipeline) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	body, err := p.Client.GetHTML(ctx, rawURL)
	if err != nil {
		return nil, wrapFetchError(rawURL, err)
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, &ParseError{URL: rawURL, Err: err}
	}

	finalURL := pageURL
	if printURL := findPrintAlternate(body, pageURL); printURL != "" && printURL != rawURL {
		if printBody, perr := p.Client.GetHTML(ctx, printURL); perr == nil {
			if u, uerr := url.Parse(printURL); uerr == nil {
				body = printBody
				finalURL = u
			}
		} else {
			log.Warn().Err(perr).Str("url", printURL).Msg("print variant fetch failed; using original page")
		}
	}

	// Readability failures mean the page has no extractable article, not that
	// the markup is unparsable: the HTML5 parser underneath never rejects
	// real-world tag soup.
	extracted, err := readability.FromReader(bytes.NewReader(body), finalURL)
	if err != nil {
		return nil, &ExtractionError{URL: rawURL}
	}
	content := strings.TrimSpace(extracted.Content)
	if content == "" {
		return nil, &ExtractionError{URL: rawURL}
	}

	blocks, err := block.Extract(content, finalURL, p.Noise)
	if err != nil {
		return nil, &ParseError{URL: rawURL, Err: err}
	}

	title := noise.Collapse(extracted.Title)
	if title == "" {
		title = rawURL
	}
	return &Article{
		Title:     title,
		Byline:    noise.Collapse(extracted.Byline),
		SourceURL: rawURL,
		Blocks:    blocks,
	}, nil
}

func wrapFetchError(rawURL string, err error) error {
	fe := &FetchError{URL: rawURL, Err: err}
	var se *fetch.StatusError
	if errors.As(err, &se) {
		fe.Status = se.Status
	}
	return fe
}

// printAnchorLabels are the visible anchor texts that identify a
// printer-friendly page link.
var printAnchorLabels = []string{"print", "printer-friendly", "print view"}

// findPrintAlternate inspects a fetched page for a print-friendly alternative:
// a link[rel=alternate] tagged for print media, or an anchor whose visible
// text names a print view. The returned URL is absolute, or empty when the
// page advertises none.
func findPrintAlternate(body []byte, base *url.URL) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var found string
	doc.Find(`link[rel="alternate"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		media, _ := s.Attr("media")
		if !strings.Contains(strings.ToLower(media), "print") {
			return true
		}
		if href, ok := s.Attr("href"); ok {
			found = resolveHref(base, href)
		}
		return found == ""
	})
	if found != "" {
		return found
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := noise.Collapse(s.Text())
		for _, want := range printAnchorLabels {
			if strings.EqualFold(label, want) {
				href, _ := s.Attr("href")
				found = resolveHref(base, href)
				break
			}
		}
		return found == ""
	})
	return found
}

func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if !abs.IsAbs() {
		return ""
	}
	return abs.String()
}
