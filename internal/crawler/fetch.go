package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultPageTimeout = 20 * time.Second

	// maxBodyBytes bounds memory per page; pages larger than this are cut off.
	maxBodyBytes = 5 << 20

	browserUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	alternateUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:125.0) Gecko/20100101 Firefox/125.0"
)

// errNotHTML marks responses with a non-HTML content type. These are skipped
// without counting as fetch failures.
var errNotHTML = errors.New("not an html page")

func isSkippable(err error) bool {
	return errors.Is(err, errNotHTML)
}

// fetcher wraps an http.Client with the crawl's request conventions.
type fetcher struct {
	client  *http.Client
	timeout time.Duration
}

func newFetcher(timeout time.Duration) *fetcher {
	return &fetcher{
		// Per-request deadlines come from the context so the alternate-UA
		// retry gets its own budget.
		client:  &http.Client{},
		timeout: timeout,
	}
}

// fetch GETs a page with the given user agent. On HTTP 403/429 it retries
// once with the alternate user agent before giving up.
func (f *fetcher) fetch(ctx context.Context, pageURL, userAgent string) (string, error) {
	body, status, err := f.get(ctx, pageURL, userAgent)
	if err != nil {
		return "", err
	}
	if status == http.StatusForbidden || status == http.StatusTooManyRequests {
		retryUA := alternateUserAgent
		if userAgent == alternateUserAgent {
			retryUA = browserUserAgent
		}
		body, status, err = f.get(ctx, pageURL, retryUA)
		if err != nil {
			return "", err
		}
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("http status %d", status)
	}
	return body, nil
}

func (f *fetcher) get(ctx context.Context, pageURL, userAgent string) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,de;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		ct := resp.Header.Get("Content-Type")
		if ct != "" && !strings.Contains(ct, "text/html") && !strings.Contains(ct, "application/xhtml") {
			return "", resp.StatusCode, errNotHTML
		}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("reading %s: %w", pageURL, err)
	}
	return string(b), resp.StatusCode, nil
}
