// Package extract turns raw HTML into prioritized plain text and discovers
// same-domain links. All functions are pure and safe for concurrent use.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// minSectionLen is the minimum content length for a harvested job section.
	minSectionLen = 30
	// minLineLen filters out trivial headings and list items.
	minLineLen = 3
)

// jobSectionSelectors match containers that typically hold job postings.
// German variants are included because the pipeline is frequently pointed at
// German career sites.
var jobSectionSelectors = []string{
	`[class*="job-description"]`, `[id*="job-description"]`,
	`[class*="job-details"]`, `[id*="job-details"]`,
	`[class*="job-requirements"]`, `[id*="job-requirements"]`,
	`[class*="job-posting"]`, `[id*="job-posting"]`,
	`[class*="vacancy"]`, `[id*="vacancy"]`,
	`[class*="career"]`, `[id*="career"]`,
	`[class*="stellenangebot"]`, `[id*="stellenangebot"]`,
	`[class*="stellenanzeige"]`, `[id*="stellenanzeige"]`,
	`[class*="karriere"]`, `[id*="karriere"]`,
}

// chromeTags are stripped together with their contents. One regex per tag:
// a combined alternation would let a nested block of another family member
// (`<header><nav>…</nav>banner</header>`) terminate the match early and leak
// the outer tag's trailing content.
var chromeTagRes = func() []*regexp.Regexp {
	tags := []string{"script", "style", "nav", "header", "footer", "aside"}
	res := make([]*regexp.Regexp, len(tags))
	for i, tag := range tags {
		res[i] = regexp.MustCompile(`(?is)<` + tag + `\b[^>]*>.*?</\s*` + tag + `\s*>`)
	}
	return res
}()

var (
	commentRe   = regexp.MustCompile(`(?s)<!--.*?-->`)
	h1Re        = regexp.MustCompile(`(?is)<h1\b[^>]*>(.*?)</h1>`)
	hxRe        = regexp.MustCompile(`(?is)<h[2-6]\b[^>]*>(.*?)</h[2-6]>`)
	pRe         = regexp.MustCompile(`(?is)<p\b[^>]*>(.*?)</p>`)
	brRe        = regexp.MustCompile(`(?i)<br\s*/?>`)
	liRe        = regexp.MustCompile(`(?is)<li\b[^>]*>(.*?)</li>`)
	tagRe       = regexp.MustCompile(`(?s)<[^>]+>`)
	numEntityRe = regexp.MustCompile(`&#\d+;`)
	spacesRe    = regexp.MustCompile(`[ \t\r\f]+`)
	newlinesRe  = regexp.MustCompile(`\n{3,}`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&#39;", "'",
)

// Text converts an HTML document into readable plain text. Job-related
// sections, headings and list items are emitted first so that a downstream
// token-budget cut never truncates them away before general body text.
func Text(html string) string {
	var priority []string

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find("script, style, nav, header, footer, aside").Remove()

		priority = append(priority, jobSections(doc)...)
		priority = append(priority, headings(doc)...)
		priority = append(priority, listItems(doc)...)
	}

	general := genericText(html)

	// Without prioritized content the input was effectively already plain
	// text; emitting section markers here would break idempotence.
	if len(priority) == 0 {
		return general
	}

	var sb strings.Builder
	sb.WriteString("=== JOB DETAILS ===\n\n")
	sb.WriteString(strings.Join(priority, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString("=== GENERAL PAGE CONTENT ===\n\n")
	sb.WriteString(general)

	return strings.TrimSpace(collapseWhitespace(sb.String()))
}

// jobSections harvests the text of containers that look like job postings,
// keeping only sections with enough content to be meaningful.
func jobSections(doc *goquery.Document) []string {
	var sections []string
	seen := make(map[string]struct{})

	for _, sel := range jobSectionSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(collapseWhitespace(s.Text()))
			if len(text) <= minSectionLen {
				return
			}
			if _, ok := seen[text]; ok {
				return
			}
			seen[text] = struct{}{}
			sections = append(sections, text)
		})
	}
	return sections
}

func headings(doc *goquery.Document) []string {
	var out []string
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(collapseWhitespace(s.Text()))
		if len(text) > minLineLen {
			out = append(out, "### "+text)
		}
	})
	return out
}

func listItems(doc *goquery.Document) []string {
	var out []string
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(collapseWhitespace(s.Text()))
		if len(text) > minLineLen {
			out = append(out, "• "+text)
		}
	})
	return out
}

// genericText converts HTML tags into lightweight text structure: headings
// become markdown-ish markers, paragraphs and list items become lines, and
// everything else is stripped.
func genericText(html string) string {
	s := commentRe.ReplaceAllString(html, " ")
	s = stripChrome(s)
	s = h1Re.ReplaceAllString(s, "\n\n### $1\n\n")
	s = hxRe.ReplaceAllString(s, "\n\n## $1\n\n")
	s = pRe.ReplaceAllString(s, "$1\n")
	s = brRe.ReplaceAllString(s, "\n")
	s = liRe.ReplaceAllString(s, "• $1\n")
	s = tagRe.ReplaceAllString(s, " ")
	s = DecodeEntities(s)
	return strings.TrimSpace(collapseWhitespace(s))
}

// stripChrome removes chrome blocks with their contents, repeating until no
// block is left so nested combinations unwind innermost-first.
func stripChrome(s string) string {
	for {
		before := s
		for _, re := range chromeTagRes {
			s = re.ReplaceAllString(s, " ")
		}
		if s == before {
			return s
		}
	}
}

// DecodeEntities resolves the common HTML entities; numeric entities become a
// single space.
func DecodeEntities(s string) string {
	s = entityReplacer.Replace(s)
	return numEntityRe.ReplaceAllString(s, " ")
}

func collapseWhitespace(s string) string {
	s = spacesRe.ReplaceAllString(s, " ")
	// trim trailing spaces per line so heading markers stay clean
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	return newlinesRe.ReplaceAllString(s, "\n\n")
}
