package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(pagesCrawledTotal, crawlPageFailuresTotal, crawlFailuresTotal, crawlDurationSeconds)
}

var pagesCrawledTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "crawl_pages_total",
		Help: "Total number of pages fetched and counted toward crawl results.",
	},
)

var crawlPageFailuresTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "crawl_page_failures_total",
		Help: "Total number of individual page fetches that failed.",
	},
)

var crawlFailuresTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "crawl_failures_total",
		Help: "Total number of crawls that ended without any usable page.",
	},
)

var crawlDurationSeconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "crawl_duration_seconds",
		Help:    "Wall-clock duration of whole-site crawls.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 180, 240},
	},
)

func IncPagesCrawled()       { pagesCrawledTotal.Inc() }
func IncCrawlPageFailure()   { crawlPageFailuresTotal.Inc() }
func IncCrawlFailure()       { crawlFailuresTotal.Inc() }
func ObserveCrawlDuration(s float64) { crawlDurationSeconds.Observe(s) }
