package service

import (
	"Autopost/internal/model"
	"context"
	log "log/slog"
	"time"
)

// Locker 分布式锁，redis.Store 实现
type Locker interface {
	TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key string, value interface{})
}

// Cache 简单 KV 缓存，redis.Store 实现
type Cache interface {
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetValue(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	DeleteKey(ctx context.Context, key string) error
}

// PostEventSink 帖子生命周期事件出口，kafka.EventProducer 实现
type PostEventSink interface {
	Emit(ctx context.Context, event model.PostEvent) error
}

type noopEventSink struct{}

// NewNoopEventSink 未配置 Kafka 时使用
func NewNoopEventSink() PostEventSink {
	return noopEventSink{}
}

func (noopEventSink) Emit(context.Context, model.PostEvent) error {
	return nil
}

// emitEvent 事件投递失败只记日志，不影响主流程
func emitEvent(ctx context.Context, sink PostEventSink, post *model.GeneratedPost, from, to model.PostStatus, reason string) {
	event := model.PostEvent{
		PostID:     post.ID,
		UserID:     post.UserID,
		Platform:   post.Platform,
		From:       from,
		To:         to,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	if err := sink.Emit(ctx, event); err != nil {
		log.WarnContext(ctx, "emit post event failed", "post_id", post.ID, "to", to, "err", err)
	}
}
