package dto

import "time"

type DiscoveredContentQuery struct {
	PageQuery
	IsProcessed *bool   `form:"is_processed"`
	SourceID    *uint64 `form:"source_id"`
}

type SearchContentQuery struct {
	PageQuery
	Keyword string `form:"q" binding:"required"`
}

type UpdateDiscoveredContentDTO struct {
	IsProcessed *bool `json:"is_processed" binding:"required"`
}

type DiscoveredContentDTO struct {
	ID              uint64     `json:"id"`
	ContentSourceID uint64     `json:"content_source_id"`
	Title           string     `json:"title"`
	Content         *string    `json:"content"`
	URL             string     `json:"url"`
	PublishedAt     *time.Time `json:"published_at"`
	IsProcessed     bool       `json:"is_processed"`
	CreatedAt       time.Time  `json:"created_at"`
}
