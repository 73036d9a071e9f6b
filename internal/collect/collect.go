// Package collect runs the article pipeline over a batch of URLs, isolating
// per-URL failures into a skip list.
package collect

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goclippings/internal/article"
)

// Fetcher is the single-URL pipeline surface the collector drives.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*article.Article, error)
}

// Result partitions a batch into successes and the original URL strings that
// failed. Articles preserve the relative input order of their URLs.
type Result struct {
	Articles []*article.Article
	Skipped  []string
}

// Collector fans the pipeline out over a batch with bounded concurrency.
type Collector struct {
	Pipeline Fetcher
	// MaxConcurrent bounds in-flight fetches. Zero or negative means 4.
	MaxConcurrent int
}

type indexed struct {
	index int
	art   *article.Article
	url   string
}

// Collect fetches every URL independently. A failure never aborts the batch:
// the original URL goes on the skip list instead. Results are tagged with
// their input index and re-sorted so completion order never leaks into the
// output.
func (c *Collector) Collect(ctx context.Context, urls []string) Result {
	workers := c.MaxConcurrent
	if workers <= 0 {
		workers = 4
	}
	if workers > len(urls) {
		workers = len(urls)
	}

	results := make([]indexed, 0, len(urls))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, u := range urls {
		wg.Add(1)
		go func(index int, url string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			art, err := c.Pipeline.Fetch(ctx, url)
			if err != nil {
				log.Warn().Err(err).Str("url", url).Msg("article skipped")
			}
			mu.Lock()
			results = append(results, indexed{index: index, art: art, url: url})
			mu.Unlock()
		}(i, u)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	var out Result
	for _, r := range results {
		if r.art != nil {
			out.Articles = append(out.Articles, r.art)
		} else {
			out.Skipped = append(out.Skipped, r.url)
		}
	}
	return out
}
