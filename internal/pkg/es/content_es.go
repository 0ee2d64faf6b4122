package es

import "time"

// ContentES 抓取内容写入 ES 的文档
type ContentES struct {
	ID          uint64     `json:"id"`
	UserID      uint64     `json:"user_id"`
	SourceID    uint64     `json:"source_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
