package dto

import "time"

type SourceCountDTO struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type ContentCountDTO struct {
	Total       int64 `json:"total"`
	Unprocessed int64 `json:"unprocessed"`
}

type PostCountDTO struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Pending   int64 `json:"pending"`
	Failed    int64 `json:"failed"`
}

type OverviewDTO struct {
	ContentSources    SourceCountDTO     `json:"content_sources"`
	DiscoveredContent ContentCountDTO    `json:"discovered_content"`
	GeneratedPosts    PostCountDTO       `json:"generated_posts"`
	SocialAccounts    int64              `json:"social_accounts"`
	RecentActivity    []GeneratedPostDTO `json:"recent_activity"`
}

type PostStatsQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

type EngagementDTO struct {
	Posts    int64 `json:"posts"`
	Likes    int64 `json:"likes"`
	Shares   int64 `json:"shares"`
	Comments int64 `json:"comments"`
	Views    int64 `json:"views"`
}

type PostStatsDTO struct {
	Days          int                      `json:"days"`
	TotalPosts    int64                    `json:"total_posts"`
	PlatformStats map[string]EngagementDTO `json:"platform_stats"`
	DailyStats    map[string]EngagementDTO `json:"daily_stats"`
}

type SourceStatsDTO struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	IsActive     bool       `json:"is_active"`
	TotalContent int64      `json:"total_content"`
	TotalPosts   int64      `json:"total_posts"`
	LastCrawled  *time.Time `json:"last_crawled"`
}
