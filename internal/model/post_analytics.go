package model

import (
	"time"
)

// PostAnalytics 互动快照，只追加
type PostAnalytics struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	GeneratedPostID uint64    `gorm:"not null;index:idx_post_recorded,priority:1" json:"generated_post_id"`
	Likes           int64     `gorm:"not null;default:0" json:"likes"`
	Shares          int64     `gorm:"not null;default:0" json:"shares"`
	Comments        int64     `gorm:"not null;default:0" json:"comments"`
	Views           int64     `gorm:"not null;default:0" json:"views"`
	RecordedAt      time.Time `gorm:"not null;index:idx_post_recorded,priority:2" json:"recorded_at"`

	// 关联关系
	GeneratedPost GeneratedPost `gorm:"foreignKey:GeneratedPostID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PostAnalytics) TableName() string {
	return "post_analytics"
}
