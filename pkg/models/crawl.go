package models

// CrawlResult is the transient outcome of one site crawl. It is never
// persisted; the orchestrator copies the fields it needs onto the job row.
type CrawlResult struct {
	Success     bool
	TextContent string
	PageCount   int
	Domain      string
	Err         string
}

// Document is an uploaded document whose text has already been extracted by
// the submitting layer. Binary formats (PDF etc.) are not parsed here.
type Document struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type"`
}
