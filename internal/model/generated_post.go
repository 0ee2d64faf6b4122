package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type GeneratedPost struct {
	ID                  uint64       `gorm:"primaryKey" json:"id"`
	UserID              uint64       `gorm:"not null;index:idx_user_status,priority:1" json:"user_id"`
	DiscoveredContentID uint64       `gorm:"not null;index:idx_content_id" json:"discovered_content_id"`
	SocialAccountID     uint64       `gorm:"not null;index:idx_account_id" json:"social_account_id"`
	Content             string       `gorm:"type:text;not null" json:"content"`
	Platform            Platform     `gorm:"type:varchar(16);not null" json:"platform"`
	Status              PostStatus   `gorm:"type:varchar(32);not null;default:DRAFT;index:idx_user_status,priority:2" json:"status"`
	ScheduledAt         *time.Time   `json:"scheduled_at"`
	PublishedAt         *time.Time   `json:"published_at"`
	Metadata            PostMetadata `gorm:"type:json" json:"metadata"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`

	// 关联关系
	DiscoveredContent DiscoveredContent `gorm:"foreignKey:DiscoveredContentID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
	SocialAccount     SocialAccount     `gorm:"foreignKey:SocialAccountID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (GeneratedPost) TableName() string {
	return "generated_posts"
}

const (
	// MetadataProviderPostID 平台返回的帖子 ID
	MetadataProviderPostID = "providerPostId"
	// MetadataPublishError 最近一次发布失败的原因
	MetadataPublishError = "publishError"
)

// PostMetadata 平台元数据，例如 providerPostId
type PostMetadata map[string]any

func (m PostMetadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *PostMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSON value:", value))
	}
	return json.Unmarshal(bytes, m)
}
