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

const crawlJobTimeout = 30 * time.Minute

// CrawlJob 定时抓取所有启用的 RSS 源，多实例部署时只有拿到锁的实例执行
type CrawlJob struct {
	crawler service.CrawlerService
	locker  service.Locker
}

func NewCrawlJob(crawler service.CrawlerService, locker service.Locker) *CrawlJob {
	return &CrawlJob{
		crawler: crawler,
		locker:  locker,
	}
}

func (s *CrawlJob) Run() {
	ctx, cancel := context.WithTimeout(logger.NewJobContext(context.Background(), "crawl"), crawlJobTimeout)
	defer cancel()

	lockValue := uuid.NewString()
	ok, err := s.locker.TryLock(ctx, consts.CrawlAllLock, lockValue, crawlJobTimeout, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire crawl job lock error", "err", err)
		return
	}
	if !ok {
		log.InfoContext(ctx, "crawl job is running on another instance, skipped")
		return
	}
	defer s.locker.UnLock(context.WithoutCancel(ctx), consts.CrawlAllLock, lockValue)

	summary, err := s.crawler.CrawlAllSources(ctx)
	if err != nil {
		log.ErrorContext(ctx, "crawl job failed", "err", err)
		return
	}
	log.InfoContext(ctx, "crawl job finished", "new_items", summary.NewItems, "failed", summary.Failed)
}
