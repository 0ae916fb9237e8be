package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxLinksPerPage bounds queue growth on link-heavy pages.
const maxLinksPerPage = 100

// skippedExtensions are asset types that never contain crawlable text.
var skippedExtensions = []string{
	".css", ".js", ".json", ".xml",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico",
	".mp3", ".wav", ".ogg",
	".mp4", ".avi", ".mov", ".webm", ".mkv",
	".zip", ".tar", ".gz", ".rar", ".7z",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".woff", ".woff2", ".ttf", ".eot",
}

// skippedSegments are well-known non-content areas of a site, matched against
// whole path segments so content paths like /blog/login-tips or /cartography
// are not swept up.
var skippedSegments = map[string]struct{}{
	"wp-admin": {}, "wp-login": {}, "wp-json": {},
	"admin": {}, "login": {}, "logout": {}, "signin": {}, "signup": {}, "register": {},
	"cart": {}, "checkout": {}, "account": {}, "my-account": {},
	"feed": {}, "rss": {}, "sitemap": {},
	"privacy": {}, "privacy-policy": {}, "terms": {}, "terms-of-service": {},
	"imprint": {}, "impressum": {}, "datenschutz": {},
	"unsubscribe": {}, "preferences": {},
}

// Links extracts the same-domain links of one page. Relative hrefs are
// resolved against baseURL; links to asset files and non-content paths are
// dropped; the result is de-duplicated and capped at maxLinksPerPage.
func Links(html, domain, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "javascript:") ||
			strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "tel:") ||
			strings.HasPrefix(lower, "data:") {
			return true
		}

		resolved := resolveHref(href, base)
		if resolved == "" {
			return true
		}

		u, err := url.Parse(resolved)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return true
		}
		if !strings.EqualFold(u.Hostname(), domain) {
			return true
		}
		if isSkippedLink(u) {
			return true
		}

		u.Fragment = ""
		canonical := u.String()
		if _, dup := seen[canonical]; dup {
			return true
		}
		seen[canonical] = struct{}{}
		links = append(links, canonical)

		return len(links) < maxLinksPerPage
	})

	return links
}

// resolveHref turns a possibly-relative href into an absolute URL string.
func resolveHref(href string, base *url.URL) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if base == nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func isSkippedLink(u *url.URL) bool {
	path := strings.ToLower(u.Path)
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		// wp-login.php, sitemap.xml
		if name, _, found := strings.Cut(seg, "."); found {
			seg = name
		}
		if _, skip := skippedSegments[seg]; skip {
			return true
		}
	}
	return false
}
