package dto

import "time"

type CreateContentSourceDTO struct {
	Name string `json:"name" binding:"required" validate:"min=1,max=255"`
	URL  string `json:"url" binding:"required" validate:"url,max=2048"`
	Type string `json:"type" validate:"omitempty,oneof=RSS API"`
}

type UpdateContentSourceDTO struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	URL      *string `json:"url,omitempty" validate:"omitempty,url,max=2048"`
	Type     *string `json:"type,omitempty" validate:"omitempty,oneof=RSS API"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ContentSourceDTO struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	Type         string     `json:"type"`
	IsActive     bool       `json:"is_active"`
	LastCrawled  *time.Time `json:"last_crawled"`
	ContentCount int64      `json:"content_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CrawlResultDTO struct {
	SourceID uint64 `json:"source_id"`
	NewItems int    `json:"new_items"`
}
