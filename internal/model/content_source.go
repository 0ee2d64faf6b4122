package model

import (
	"time"
)

// SourceType 内容源类型
type SourceType string

const (
	SourceTypeRSS SourceType = "RSS"
	SourceTypeAPI SourceType = "API"
)

type ContentSource struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	UserID      uint64     `gorm:"not null;index:idx_user_id" json:"user_id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	URL         string     `gorm:"type:varchar(2048);not null" json:"url"`
	Type        SourceType `gorm:"type:varchar(16);not null;default:RSS" json:"type"`
	IsActive    bool       `gorm:"type:tinyint(1);not null;default:1;index:idx_active_type" json:"is_active"`
	LastCrawled *time.Time `json:"last_crawled"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联关系
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ContentSource) TableName() string {
	return "content_sources"
}
