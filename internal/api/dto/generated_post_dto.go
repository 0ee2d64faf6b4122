package dto

import "time"

type GeneratedPostQuery struct {
	PageQuery
	Status   string `form:"status" validate:"omitempty,oneof=DRAFT PENDING_APPROVAL APPROVED SCHEDULED PUBLISHED FAILED"`
	Platform string `form:"platform" validate:"omitempty,oneof=TWITTER FACEBOOK LINKEDIN INSTAGRAM"`
}

type CreatePostDTO struct {
	Content             string     `json:"content" binding:"required" validate:"min=1"`
	Platform            string     `json:"platform" binding:"required" validate:"oneof=TWITTER FACEBOOK LINKEDIN INSTAGRAM"`
	DiscoveredContentID uint64     `json:"discovered_content_id" binding:"required"`
	SocialAccountID     uint64     `json:"social_account_id" binding:"required"`
	ScheduledAt         *time.Time `json:"scheduled_at,omitempty"`
}

// GenerationOptions AI 生成选项，空值使用默认
type GenerationOptions struct {
	Tone            *string `json:"tone,omitempty" validate:"omitempty,oneof=professional casual engaging informative"`
	IncludeHashtags *bool   `json:"include_hashtags,omitempty"`
	IncludeURL      *bool   `json:"include_url,omitempty"`
}

type GeneratePostDTO struct {
	DiscoveredContentID uint64            `json:"discovered_content_id" binding:"required"`
	SocialAccountID     uint64            `json:"social_account_id" binding:"required"`
	Platform            string            `json:"platform,omitempty" validate:"omitempty,oneof=TWITTER FACEBOOK LINKEDIN INSTAGRAM"`
	Options             GenerationOptions `json:"options"`
}

type GenerateVariantsDTO struct {
	DiscoveredContentID uint64            `json:"discovered_content_id" binding:"required"`
	Platform            string            `json:"platform" binding:"required" validate:"oneof=TWITTER FACEBOOK LINKEDIN INSTAGRAM"`
	Count               int               `json:"count,omitempty" validate:"omitempty,min=1,max=5"`
	Options             GenerationOptions `json:"options"`
}

type VariantsDTO struct {
	Variants []string `json:"variants"`
}

type UpdatePostDTO struct {
	Content     *string    `json:"content,omitempty" validate:"omitempty,min=1"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

type ContentBriefDTO struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type AccountBriefDTO struct {
	ID          uint64 `json:"id"`
	Platform    string `json:"platform"`
	AccountName string `json:"account_name"`
}

type PostAnalyticsDTO struct {
	Likes      int64     `json:"likes"`
	Shares     int64     `json:"shares"`
	Comments   int64     `json:"comments"`
	Views      int64     `json:"views"`
	RecordedAt time.Time `json:"recorded_at"`
}

type GeneratedPostDTO struct {
	ID                  uint64             `json:"id"`
	DiscoveredContentID uint64             `json:"discovered_content_id"`
	SocialAccountID     uint64             `json:"social_account_id"`
	Content             string             `json:"content"`
	Platform            string             `json:"platform"`
	Status              string             `json:"status"`
	ScheduledAt         *time.Time         `json:"scheduled_at"`
	PublishedAt         *time.Time         `json:"published_at"`
	Metadata            map[string]any     `json:"metadata"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
	DiscoveredContent   *ContentBriefDTO   `json:"discovered_content,omitempty"`
	SocialAccount       *AccountBriefDTO   `json:"social_account,omitempty"`
	Analytics           []PostAnalyticsDTO `json:"analytics,omitempty"`
}
