// Package compose lays normalized articles (plus optional comprehension
// sections) onto fixed-size pages and returns the finished PDF bytes.
package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goclippings/internal/article"
	"github.com/hyperifyio/goclippings/internal/block"
	"github.com/hyperifyio/goclippings/internal/quiz"
)

// ErrEmptyInput is returned when Compose is called with no articles. Callers
// are expected to guard the all-failed batch case before invoking the
// compositor; this sentinel is the compositor's own refusal.
var ErrEmptyInput = errors.New("compose: no articles")

// LayoutError wraps an unrecoverable composition failure. Image fetch or
// decode failures never become LayoutErrors; they degrade to omitted images.
type LayoutError struct {
	Err error
}

func (e *LayoutError) Error() string { return fmt.Sprintf("layout: %v", e.Err) }

func (e *LayoutError) Unwrap() error { return e.Err }

// ImageFetcher retrieves image bytes for placement. A nil fetcher disables
// images entirely; every image block is then skipped.
type ImageFetcher interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

// creationDate is fixed so composing identical input twice yields identical
// bytes.
var creationDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Composer builds one paginated document per call. It holds no per-build
// state; each Compose owns its page cursor for the duration of the build.
type Composer struct {
	Images ImageFetcher
	Fonts  FontSet
	Geom   Geometry
	// MaxConcurrentImages bounds the image prefetch fan-out. Zero means 4.
	MaxConcurrentImages int
}

// New returns a Composer with the default fonts and geometry.
func New(images ImageFetcher) *Composer {
	return &Composer{Images: images, Fonts: DefaultFonts(), Geom: DefaultGeometry()}
}

// Compose renders every article in order, each on a fresh page, followed by
// the comprehension and answer sections when present. The byte stream is
// complete when the call returns; there are no partial results.
func (c *Composer) Compose(ctx context.Context, articles []*article.Article, sections []quiz.Section) ([]byte, error) {
	if len(articles) == 0 {
		return nil, ErrEmptyInput
	}

	images := c.prefetchImages(ctx, articles)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(creationDate)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(c.Geom.MarginLeft, c.Geom.MarginTop, c.Geom.MarginRight)
	// Page breaks are the cursor's decision, not gofpdf's.
	pdf.SetAutoPageBreak(false, c.Geom.MarginBottom)

	cur := &cursor{pdf: pdf, geom: c.Geom, fonts: c.Fonts}
	for _, a := range articles {
		// Hard break: every article starts on a new page, measurement aside.
		cur.startPage()
		c.writeArticle(cur, a, images)
	}
	if len(sections) > 0 {
		cur.startPage()
		c.writeQuestions(cur, sections)
		cur.startPage()
		c.writeAnswers(cur, sections)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &LayoutError{Err: err}
	}
	return buf.Bytes(), nil
}

// writeArticle renders the title block (title, optional byline, clickable
// source link) and then every body block in reading order.
func (c *Composer) writeArticle(cur *cursor, a *article.Article, images map[string][]byte) {
	cur.writeText(c.Fonts.Title, a.Title, gapAfterTitle)
	if a.Byline != "" {
		cur.writeText(c.Fonts.Byline, a.Byline, gapAfterByline)
	}
	cur.pdf.SetTextColor(90, 90, 90)
	cur.writeLinkedText(c.Fonts.Source, a.SourceURL, gapAfterSource, a.SourceURL)
	cur.pdf.SetTextColor(0, 0, 0)

	for _, b := range a.Blocks {
		switch v := b.(type) {
		case block.Heading:
			cur.writeText(c.Fonts.Heading(v.Level), v.Text, gapAfterHeading)
		case block.Paragraph:
			cur.writeText(c.Fonts.Body, v.Text, gapAfterParagraph)
		case block.Image:
			data, ok := images[v.SourceURL]
			if !ok {
				continue
			}
			if err := cur.placeImage(v.SourceURL, data); err != nil {
				log.Warn().Err(err).Str("url", v.SourceURL).Msg("image skipped")
			}
		}
	}
}

// writeQuestions renders the Comprehension section: one titled group of
// numbered questions per article section.
func (c *Composer) writeQuestions(cur *cursor, sections []quiz.Section) {
	cur.writeText(c.Fonts.Title, "Comprehension", gapAfterSource)
	for _, s := range sections {
		cur.writeText(c.Fonts.Heading(2), s.Title, gapAfterHeading)
		for i, q := range s.Questions {
			cur.writeText(c.Fonts.Body, fmt.Sprintf("%d. %s", i+1, q), gapAfterParagraph)
		}
	}
}

// writeAnswers mirrors the question structure, truncating each section to the
// overlapping question/answer prefix.
func (c *Composer) writeAnswers(cur *cursor, sections []quiz.Section) {
	cur.writeText(c.Fonts.Title, "Answers", gapAfterSource)
	for _, s := range sections {
		n := len(s.Questions)
		if len(s.Answers) < n {
			n = len(s.Answers)
		}
		cur.writeText(c.Fonts.Heading(2), s.Title, gapAfterHeading)
		for i := 0; i < n; i++ {
			cur.writeText(c.Fonts.Body, fmt.Sprintf("%d. %s", i+1, s.Answers[i]), gapAfterParagraph)
		}
	}
}

// prefetchImages resolves every image block's bytes before layout begins, so
// placement decisions never wait on the network and failures are already
// known. Fetches run concurrently across blocks; the map is complete before
// the cursor writes anything.
func (c *Composer) prefetchImages(ctx context.Context, articles []*article.Article) map[string][]byte {
	images := make(map[string][]byte)
	if c.Images == nil {
		return images
	}

	urls := make([]string, 0)
	seen := make(map[string]struct{})
	for _, a := range articles {
		for _, b := range a.Blocks {
			img, ok := b.(block.Image)
			if !ok {
				continue
			}
			if _, dup := seen[img.SourceURL]; dup {
				continue
			}
			seen[img.SourceURL] = struct{}{}
			urls = append(urls, img.SourceURL)
		}
	}

	workers := c.MaxConcurrentImages
	if workers <= 0 {
		workers = 4
	}
	sem := make(chan struct{}, workers)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := c.Images.GetBytes(ctx, url)
			if err != nil {
				log.Warn().Err(err).Str("url", url).Msg("image fetch failed; omitting")
				return
			}
			mu.Lock()
			images[url] = data
			mu.Unlock()
		}(u)
	}
	wg.Wait()
	return images
}
