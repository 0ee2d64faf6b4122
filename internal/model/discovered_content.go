package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	// MaxContentTitleRunes 标题按字符截断
	MaxContentTitleRunes = 512
	// MaxContentURLLength 超过的条目直接跳过
	MaxContentURLLength = 2048
)

// DiscoveredContent 去重键为 (content_source_id, url_hash)，url 本身太长无法建唯一索引
type DiscoveredContent struct {
	ID              uint64     `gorm:"primaryKey" json:"id"`
	UserID          uint64     `gorm:"not null;index:idx_user_id" json:"user_id"`
	ContentSourceID uint64     `gorm:"not null;uniqueIndex:uk_source_url_hash,priority:1" json:"content_source_id"`
	Title           string     `gorm:"type:varchar(512);not null" json:"title"`
	Content         *string    `gorm:"type:text" json:"content"`
	URL             string     `gorm:"type:varchar(2048);not null" json:"url"`
	URLHash         string     `gorm:"type:char(64);not null;uniqueIndex:uk_source_url_hash,priority:2" json:"-"`
	PublishedAt     *time.Time `json:"published_at"`
	IsProcessed     bool       `gorm:"type:tinyint(1);not null;default:0;index:idx_processed_created,priority:1" json:"is_processed"`
	CreatedAt       time.Time  `gorm:"index:idx_processed_created,priority:2" json:"created_at"`

	// 关联关系
	ContentSource ContentSource `gorm:"foreignKey:ContentSourceID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (DiscoveredContent) TableName() string {
	return "discovered_content"
}

// HashURL url 的 SHA-256 十六进制
func HashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
