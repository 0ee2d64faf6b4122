package consts

const (
	TokenBlacklistKey    = "auth:blacklist:"
	AnalyticsOverviewKey = "analytics:overview:"
)

const (
	SourceCrawlLock = "lock:source:crawl:"
	PostPublishLock = "lock:post:publish:"
	RetentionLock   = "lock:job:retention"
	CrawlAllLock    = "lock:job:crawl"
)
