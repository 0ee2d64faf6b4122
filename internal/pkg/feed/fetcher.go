package feed

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// Item 解析后的条目，Link/Title 可能为空，由调用方过滤
type Item struct {
	Title       string
	Link        string
	Snippet     string
	PublishedAt *time.Time
}

// Fetcher 拉取并解析订阅源，条目保持源内顺序
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]Item, error)
}

// GofeedFetcher 基于 gofeed 的实现，支持 RSS/Atom/JSON Feed
type GofeedFetcher struct {
	parser    *gofeed.Parser
	sanitizer *bluemonday.Policy
}

// NewGofeedFetcher 创建抓取器，timeout 为单次请求超时
func NewGofeedFetcher(timeout time.Duration, userAgent string) *GofeedFetcher {
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	parser := gofeed.NewParser()
	parser.Client = httpClient
	if userAgent != "" {
		parser.UserAgent = userAgent
	}

	return &GofeedFetcher{
		parser:    parser,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (f *GofeedFetcher) Fetch(ctx context.Context, url string) ([]Item, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("解析 RSS 失败: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil {
			continue
		}
		items = append(items, Item{
			Title:       strings.TrimSpace(it.Title),
			Link:        strings.TrimSpace(it.Link),
			Snippet:     f.snippet(it),
			PublishedAt: publishedAt(it),
		})
	}
	return items, nil
}

// snippet 优先 description，其次 content，去掉全部 HTML 标签
func (f *GofeedFetcher) snippet(it *gofeed.Item) string {
	raw := it.Description
	if strings.TrimSpace(raw) == "" {
		raw = it.Content
	}
	if raw == "" {
		return ""
	}
	text := html.UnescapeString(f.sanitizer.Sanitize(raw))
	return strings.Join(strings.Fields(text), " ")
}

func publishedAt(it *gofeed.Item) *time.Time {
	if it.PublishedParsed != nil {
		t := it.PublishedParsed.UTC()
		return &t
	}
	if it.UpdatedParsed != nil {
		t := it.UpdatedParsed.UTC()
		return &t
	}
	return nil
}
