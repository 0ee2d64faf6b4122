package kafka

import (
	"Autopost/internal/model"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

type PostLookup interface {
	ExistsPost(ctx context.Context, id uint64) (bool, error)
}

type SnapshotWriter interface {
	CreateSnapshot(ctx context.Context, snapshot *model.PostAnalytics) error
}

// AnalyticsHandler 消费外部采集器推送的互动快照
type AnalyticsHandler struct {
	posts     PostLookup
	snapshots SnapshotWriter
	now       func() time.Time
}

func NewAnalyticsHandler(posts PostLookup, snapshots SnapshotWriter) *AnalyticsHandler {
	return &AnalyticsHandler{
		posts:     posts,
		snapshots: snapshots,
		now:       time.Now,
	}
}

func (s *AnalyticsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("post analytics consumer setup")
	return nil
}

func (s *AnalyticsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("post analytics consumer cleanup")
	return nil
}

func (s *AnalyticsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-analytics consume claim", "partition", claim.Partition())
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-analytics process batch error", "err", err)
		return err
	}
	return nil
}

// logic 格式错误或帖子不存在的消息直接跳过，只有存储错误才重试
func (s *AnalyticsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var snapshot model.AnalyticsSnapshot
	if err := json.Unmarshal(msg.Value, &snapshot); err != nil {
		log.WarnContext(ctx, "skip malformed analytics message", "offset", msg.Offset, "err", err)
		return nil
	}
	if snapshot.GeneratedPostID == 0 {
		log.WarnContext(ctx, "skip analytics message without post id", "offset", msg.Offset)
		return nil
	}
	if snapshot.Likes < 0 || snapshot.Shares < 0 || snapshot.Comments < 0 || snapshot.Views < 0 {
		log.WarnContext(ctx, "skip analytics message with negative counters", "post_id", snapshot.GeneratedPostID)
		return nil
	}

	exists, err := s.posts.ExistsPost(ctx, snapshot.GeneratedPostID)
	if err != nil {
		return err
	}
	if !exists {
		log.WarnContext(ctx, "skip analytics for unknown post", "post_id", snapshot.GeneratedPostID)
		return nil
	}

	recordedAt := s.now().UTC()
	if snapshot.RecordedAt != nil {
		recordedAt = snapshot.RecordedAt.UTC()
	}

	return s.snapshots.CreateSnapshot(ctx, &model.PostAnalytics{
		GeneratedPostID: snapshot.GeneratedPostID,
		Likes:           snapshot.Likes,
		Shares:          snapshot.Shares,
		Comments:        snapshot.Comments,
		Views:           snapshot.Views,
		RecordedAt:      recordedAt,
	})
}
