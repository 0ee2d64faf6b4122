package job

import (
	"Autopost/internal/pkg/consts"
	"Autopost/internal/pkg/logger"
	"Autopost/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const retentionJobTimeout = 10 * time.Minute

// RetentionJob 清理过期的已处理内容
type RetentionJob struct {
	retention service.RetentionService
	locker    service.Locker
}

func NewRetentionJob(retention service.RetentionService, locker service.Locker) *RetentionJob {
	return &RetentionJob{
		retention: retention,
		locker:    locker,
	}
}

func (s *RetentionJob) Run() {
	ctx, cancel := context.WithTimeout(logger.NewJobContext(context.Background(), "retention"), retentionJobTimeout)
	defer cancel()

	lockValue := uuid.NewString()
	ok, err := s.locker.TryLock(ctx, consts.RetentionLock, lockValue, retentionJobTimeout, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire retention job lock error", "err", err)
		return
	}
	if !ok {
		return
	}
	defer s.locker.UnLock(context.WithoutCancel(ctx), consts.RetentionLock, lockValue)

	deleted, err := s.retention.SweepProcessedContent(ctx)
	if err != nil {
		log.ErrorContext(ctx, "retention sweep error", "err", err)
		return
	}
	if deleted > 0 {
		log.InfoContext(ctx, "retention job finished", "deleted", deleted)
	}
}
