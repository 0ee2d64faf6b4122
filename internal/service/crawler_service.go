package service

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/model"
	"Autopost/internal/pkg/consts"
	"Autopost/internal/pkg/es"
	"Autopost/internal/pkg/feed"
	"Autopost/internal/pkg/util"
	"Autopost/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const crawlLockTTL = 5 * time.Minute

// CrawlSummary 一轮抓取的汇总
type CrawlSummary struct {
	Sources  int
	Failed   int
	Skipped  int
	NewItems int
}

type CrawlerService interface {
	CrawlAllSources(ctx context.Context) (*CrawlSummary, error)
	CrawlSource(ctx context.Context, source *model.ContentSource) (int, error)
	CrawlSourceByID(ctx context.Context, userID, id uint64) (*dto.CrawlResultDTO, error)
}

type CrawlerServiceImpl struct {
	sourceRepo  repository.ContentSourceRepo
	contentRepo repository.DiscoveredContentRepo
	contentES   es.ContentRepo
	fetcher     feed.Fetcher
	locker      Locker
	now         func() time.Time
}

func NewCrawlerService(
	sourceRepo repository.ContentSourceRepo,
	contentRepo repository.DiscoveredContentRepo,
	contentES es.ContentRepo,
	fetcher feed.Fetcher,
	locker Locker,
) CrawlerService {
	return &CrawlerServiceImpl{
		sourceRepo:  sourceRepo,
		contentRepo: contentRepo,
		contentES:   contentES,
		fetcher:     fetcher,
		locker:      locker,
		now:         time.Now,
	}
}

// CrawlAllSources 依次抓取所有启用的 RSS 源，单个源失败只记录日志
func (s *CrawlerServiceImpl) CrawlAllSources(ctx context.Context) (*CrawlSummary, error) {
	sources, err := s.sourceRepo.ListActiveByType(ctx, model.SourceTypeRSS)
	if err != nil {
		return nil, err
	}

	summary := &CrawlSummary{Sources: len(sources)}
	for _, source := range sources {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		count, err := s.crawlLocked(ctx, source)
		if err != nil {
			if errors.Is(err, ErrCrawlInProgress) {
				summary.Skipped++
				log.InfoContext(ctx, "source crawl already running, skipped", "source_id", source.ID)
				continue
			}
			summary.Failed++
			log.ErrorContext(ctx, "crawl source failed", "source_id", source.ID, "url", source.URL, "err", err)
			continue
		}
		summary.NewItems += count
	}

	log.InfoContext(ctx, "crawl all sources finished",
		"sources", summary.Sources, "failed", summary.Failed, "skipped", summary.Skipped, "new_items", summary.NewItems)
	return summary, nil
}

// CrawlSourceByID 手动触发单个源的抓取
func (s *CrawlerServiceImpl) CrawlSourceByID(ctx context.Context, userID, id uint64) (*dto.CrawlResultDTO, error) {
	source, err := s.sourceRepo.GetSource(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrSourceNotFound
	}
	if !source.IsActive {
		return nil, ErrSourceNotActive
	}

	count, err := s.crawlLocked(ctx, source)
	if err != nil {
		return nil, err
	}
	return &dto.CrawlResultDTO{SourceID: source.ID, NewItems: count}, nil
}

// crawlLocked 同一个源同一时间只允许一个抓取
func (s *CrawlerServiceImpl) crawlLocked(ctx context.Context, source *model.ContentSource) (int, error) {
	lockKey := consts.SourceCrawlLock + strconv.FormatUint(source.ID, 10)
	lockValue := uuid.NewString()

	ok, err := s.locker.TryLock(ctx, lockKey, lockValue, crawlLockTTL, 1)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrCrawlInProgress
	}
	defer s.locker.UnLock(context.WithoutCancel(ctx), lockKey, lockValue)

	return s.CrawlSource(ctx, source)
}

// CrawlSource 抓取并入库前 10 条，返回新增条数
func (s *CrawlerServiceImpl) CrawlSource(ctx context.Context, source *model.ContentSource) (int, error) {
	items, err := s.fetcher.Fetch(ctx, source.URL)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(items) == 0 {
		return 0, nil
	}
	if len(items) > consts.FeedItemLimit {
		items = items[:consts.FeedItemLimit]
	}

	created := 0
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		content := &model.DiscoveredContent{
			UserID:          source.UserID,
			ContentSourceID: source.ID,
			Title:           util.TruncateRunes(title, model.MaxContentTitleRunes),
			URL:             link,
			PublishedAt:     item.PublishedAt,
			IsProcessed:     false,
		}
		if item.Snippet != "" {
			snippet := item.Snippet
			content.Content = &snippet
		}

		inserted, err := s.contentRepo.CreateIfAbsent(ctx, content)
		if errors.Is(err, repository.ErrURLTooLong) {
			log.WarnContext(ctx, "skip item with overlong url", "source_id", source.ID, "url_len", len(link))
			continue
		}
		if err != nil {
			return created, err
		}
		if !inserted {
			continue
		}
		created++
		s.indexContent(ctx, content)
	}

	if err = s.sourceRepo.UpdateLastCrawled(ctx, source.ID, s.now().UTC()); err != nil {
		return created, err
	}
	log.InfoContext(ctx, "source crawled", "source_id", source.ID, "items", len(items), "new_items", created)
	return created, nil
}

func (s *CrawlerServiceImpl) indexContent(ctx context.Context, content *model.DiscoveredContent) {
	doc := &es.ContentES{
		ID:          content.ID,
		UserID:      content.UserID,
		SourceID:    content.ContentSourceID,
		Title:       content.Title,
		URL:         content.URL,
		PublishedAt: content.PublishedAt,
		CreatedAt:   content.CreatedAt,
	}
	if content.Content != nil {
		doc.Content = *content.Content
	}
	if err := s.contentES.IndexContent(ctx, doc); err != nil {
		log.WarnContext(ctx, "index content to es failed", "content_id", content.ID, "err", err)
	}
}
