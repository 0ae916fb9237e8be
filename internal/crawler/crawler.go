// Package crawler implements a bounded, same-domain breadth-first crawl that
// feeds the training pipeline with prioritized page text.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"sitetrainer/internal/extract"
	"sitetrainer/internal/metrics"
	"sitetrainer/pkg/models"
)

const (
	// minPageTextLen is the minimum extracted-text length for a page to count
	// toward the crawl result.
	minPageTextLen = 50
	// minFallbackTextLen is the stricter threshold applied to the last-resort
	// direct fetch.
	minFallbackTextLen = 100
	// maxFailuresCap bounds the early-abort failure threshold.
	maxFailuresCap = 10
)

// LinkScorer rates a discovered link; links scoring above zero are enqueued
// at the front of the work queue. Supplying a scorer keeps the traversal loop
// free of domain-specific keyword lists.
type LinkScorer func(link string) int

// JobLinkScorer prioritizes job-posting style paths. This is the default
// because the pipeline is tuned for recruiting-heavy sites; pass
// NeutralLinkScorer to crawl without the bias.
func JobLinkScorer(link string) int {
	l := strings.ToLower(link)
	for _, pat := range []string{"/job/", "/jobs/", "/career", "/careers", "/karriere", "/stellenangebot", "/stellen", "/vacancy", "/vacancies"} {
		if strings.Contains(l, pat) {
			return 1
		}
	}
	return 0
}

// NeutralLinkScorer applies no prioritization.
func NeutralLinkScorer(string) int { return 0 }

// Crawler performs sequential page fetches under page/depth/time budgets.
// One Crawler is safe for concurrent crawls; each crawl keeps its own state.
type Crawler struct {
	fetcher      *fetcher
	limiter      *rate.Limiter
	scorer       LinkScorer
	crawlTimeout time.Duration
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithScorer replaces the default job-link scorer.
func WithScorer(s LinkScorer) Option {
	return func(c *Crawler) { c.scorer = s }
}

// WithCrawlTimeout overrides the total wall-clock ceiling.
func WithCrawlTimeout(d time.Duration) Option {
	return func(c *Crawler) { c.crawlTimeout = d }
}

// WithFetchInterval sets the minimum spacing between outbound requests.
func WithFetchInterval(d time.Duration) Option {
	return func(c *Crawler) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithPageTimeout overrides the per-page fetch timeout.
func WithPageTimeout(d time.Duration) Option {
	return func(c *Crawler) { c.fetcher.timeout = d }
}

// New creates a Crawler with the default budgets: 20s per page fetch, 180s
// per crawl, job-link prioritization.
func New(opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:      newFetcher(defaultPageTimeout),
		limiter:      rate.NewLimiter(rate.Inf, 1),
		scorer:       JobLinkScorer,
		crawlTimeout: 180 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type queueItem struct {
	url   string
	depth int
}

// Crawl walks the site at rawURL breadth-first and returns the aggregated
// page text. It never returns an error: failures are reported through
// CrawlResult.Success and CrawlResult.Err so a partial crawl is still usable.
func (c *Crawler) Crawl(ctx context.Context, rawURL string, maxPages, maxDepth int) models.CrawlResult {
	startURL := NormalizeURL(rawURL)
	domain, err := HostOf(startURL)
	if err != nil || domain == "" {
		return models.CrawlResult{Err: fmt.Sprintf("invalid url %q", rawURL)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.crawlTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.ObserveCrawlDuration(time.Since(start).Seconds())
	}()

	maxFailures := maxPages / 2
	if maxFailures > maxFailuresCap {
		maxFailures = maxFailuresCap
	}
	if maxFailures < 1 {
		maxFailures = 1
	}

	queue := []queueItem{{url: startURL, depth: 0}}
	visited := make(map[string]struct{})
	var chunks []string
	pageCount := 0
	failures := 0

	for len(queue) > 0 && len(visited) < maxPages {
		if ctx.Err() != nil {
			slog.Warn("crawl time budget exhausted", "domain", domain, "pages", pageCount)
			break
		}

		item := queue[0]
		queue = queue[1:]

		if item.depth > maxDepth {
			continue
		}
		if _, seen := visited[item.url]; seen {
			continue
		}
		visited[item.url] = struct{}{}

		if err := c.limiter.Wait(ctx); err != nil {
			break
		}

		html, err := c.fetcher.fetch(ctx, item.url, browserUserAgent)
		if err != nil {
			if isSkippable(err) {
				slog.Debug("page skipped", "url", item.url, "reason", err)
				continue
			}
			failures++
			metrics.IncCrawlPageFailure()
			slog.Warn("page fetch failed", "url", item.url, "error", err)
			if pageCount == 0 && failures >= maxFailures {
				slog.Warn("crawl aborted early", "domain", domain, "failures", failures)
				break
			}
			continue
		}

		text := extract.Text(html)
		if len(text) >= minPageTextLen {
			chunks = append(chunks, fmt.Sprintf("--- PAGE: %s ---\n%s", item.url, text))
			pageCount++
			metrics.IncPagesCrawled()
		}

		if item.depth < maxDepth {
			queue = c.enqueue(queue, visited, extract.Links(html, domain, item.url), item.depth+1)
		}
	}

	if pageCount == 0 {
		return c.fallback(ctx, startURL, domain, failures)
	}

	return models.CrawlResult{
		Success:     true,
		TextContent: strings.Join(chunks, "\n\n"),
		PageCount:   pageCount,
		Domain:      domain,
	}
}

// enqueue appends newly discovered links, placing scorer-preferred links at
// the front of the queue.
func (c *Crawler) enqueue(queue []queueItem, visited map[string]struct{}, links []string, depth int) []queueItem {
	var front, back []queueItem
	for _, link := range links {
		if _, seen := visited[link]; seen {
			continue
		}
		item := queueItem{url: link, depth: depth}
		if c.scorer(link) > 0 {
			front = append(front, item)
		} else {
			back = append(back, item)
		}
	}
	if len(front) == 0 {
		return append(queue, back...)
	}
	merged := make([]queueItem, 0, len(front)+len(queue)+len(back))
	merged = append(merged, front...)
	merged = append(merged, queue...)
	merged = append(merged, back...)
	return merged
}

// fallback makes one last direct fetch with the alternate user agent before
// declaring the crawl failed.
func (c *Crawler) fallback(ctx context.Context, startURL, domain string, failures int) models.CrawlResult {
	slog.Info("crawl yielded no pages, trying direct fetch", "url", startURL)

	// The crawl deadline may already be spent; give the final attempt its own.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetcher.timeout)
	defer cancel()

	html, err := c.fetcher.fetch(ctx, startURL, alternateUserAgent)
	if err == nil {
		if text := extract.Text(html); len(text) > minFallbackTextLen {
			return models.CrawlResult{
				Success:     true,
				TextContent: fmt.Sprintf("--- PAGE: %s ---\n%s", startURL, text),
				PageCount:   1,
				Domain:      domain,
			}
		}
	}

	metrics.IncCrawlFailure()
	return models.CrawlResult{
		Domain: domain,
		Err:    fmt.Sprintf("could not crawl %s: no pages were accessible (%d fetch failures)", domain, failures),
	}
}

// NormalizeURL prefixes https:// when the URL carries no scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}

// HostOf returns the lowercase hostname of a URL.
func HostOf(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return strings.ToLower(u.Hostname()), nil
}
