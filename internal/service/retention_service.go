package service

import (
	"Autopost/internal/pkg/consts"
	"Autopost/internal/pkg/es"
	"Autopost/internal/repository"
	"context"
	log "log/slog"
	"time"
)

type RetentionService interface {
	// SweepProcessedContent 删除超过保留期且未被帖子引用的已处理内容，返回删除条数
	SweepProcessedContent(ctx context.Context) (int, error)
}

type RetentionServiceImpl struct {
	contentRepo   repository.DiscoveredContentRepo
	contentES     es.ContentRepo
	retentionDays int
	now           func() time.Time
}

func NewRetentionService(contentRepo repository.DiscoveredContentRepo, contentES es.ContentRepo, retentionDays int) RetentionService {
	if retentionDays <= 0 {
		retentionDays = consts.RetentionDays
	}
	return &RetentionServiceImpl{
		contentRepo:   contentRepo,
		contentES:     contentES,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (s *RetentionServiceImpl) SweepProcessedContent(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -s.retentionDays)
	ids, err := s.contentRepo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err = s.contentES.DeleteContent(ctx, id); err != nil {
			log.WarnContext(ctx, "delete swept content from es failed", "content_id", id, "err", err)
		}
	}
	log.InfoContext(ctx, "retention sweep finished", "cutoff", cutoff, "deleted", len(ids))
	return len(ids), nil
}
