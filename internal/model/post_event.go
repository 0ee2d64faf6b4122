package model

import (
	"time"
)

// PostEvent 帖子生命周期事件，写入 Kafka
type PostEvent struct {
	PostID     uint64     `json:"post_id"`
	UserID     uint64     `json:"user_id"`
	Platform   Platform   `json:"platform"`
	From       PostStatus `json:"from,omitempty"`
	To         PostStatus `json:"to"`
	Reason     string     `json:"reason,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// AnalyticsSnapshot 外部采集器推送的互动数据
type AnalyticsSnapshot struct {
	GeneratedPostID uint64     `json:"generated_post_id"`
	Likes           int64      `json:"likes"`
	Shares          int64      `json:"shares"`
	Comments        int64      `json:"comments"`
	Views           int64      `json:"views"`
	RecordedAt      *time.Time `json:"recorded_at"`
}
