package mongo

import (
	"time"
)

const (
	GenerationKindPost    = "post"
	GenerationKindVariant = "variant"
	GenerationKindSummary = "summary"
)

// GenerationLog 一次 LLM 生成的审计记录
type GenerationLog struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    uint64    `bson:"user_id" json:"userId"`
	Kind      string    `bson:"kind" json:"kind"`
	Platform  string    `bson:"platform,omitempty" json:"platform,omitempty"`
	Tone      string    `bson:"tone,omitempty" json:"tone,omitempty"`
	Title     string    `bson:"title" json:"title"`
	Output    string    `bson:"output,omitempty" json:"output,omitempty"`
	Success   bool      `bson:"success" json:"success"`
	Error     string    `bson:"error,omitempty" json:"error,omitempty"`
	LatencyMs int64     `bson:"latency_ms" json:"latencyMs"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
