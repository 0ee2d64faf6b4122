package service

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/model"
	"Autopost/internal/pkg/consts"
	"Autopost/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const overviewCacheTTL = time.Minute

type AnalyticsService interface {
	GetOverview(ctx context.Context, userID uint64) (*dto.OverviewDTO, error)
	GetPostStats(ctx context.Context, userID uint64, days int) (*dto.PostStatsDTO, error)
	GetSourceStats(ctx context.Context, userID uint64) ([]*dto.SourceStatsDTO, error)
}

type AnalyticsServiceImpl struct {
	analyticsRepo repository.AnalyticsRepo
	postRepo      repository.GeneratedPostRepo
	snapshotRepo  repository.PostAnalyticsRepo
	cache         Cache
	now           func() time.Time
}

func NewAnalyticsService(
	analyticsRepo repository.AnalyticsRepo,
	postRepo repository.GeneratedPostRepo,
	snapshotRepo repository.PostAnalyticsRepo,
	cache Cache,
) AnalyticsService {
	return &AnalyticsServiceImpl{
		analyticsRepo: analyticsRepo,
		postRepo:      postRepo,
		snapshotRepo:  snapshotRepo,
		cache:         cache,
		now:           time.Now,
	}
}

// GetOverview 概览计数与最近帖子，redis 缓存一分钟
func (s *AnalyticsServiceImpl) GetOverview(ctx context.Context, userID uint64) (*dto.OverviewDTO, error) {
	key := consts.AnalyticsOverviewKey + strconv.FormatUint(userID, 10)
	if cached, err := s.cache.GetValue(ctx, key); err == nil && cached != "" {
		overview := &dto.OverviewDTO{}
		if err = json.Unmarshal([]byte(cached), overview); err == nil {
			return overview, nil
		}
		log.WarnContext(ctx, "decode overview cache failed", "err", err)
	}

	counts, err := s.analyticsRepo.CountOverview(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.postRepo.ListRecentPosts(ctx, userID, consts.RecentPostsLimit)
	if err != nil {
		return nil, err
	}

	overview := &dto.OverviewDTO{
		ContentSources: dto.SourceCountDTO{
			Total:  counts.TotalSources,
			Active: counts.ActiveSources,
		},
		DiscoveredContent: dto.ContentCountDTO{
			Total:       counts.TotalContent,
			Unprocessed: counts.UnprocessedContent,
		},
		GeneratedPosts: dto.PostCountDTO{
			Total:     counts.TotalPosts,
			Published: counts.PublishedPosts,
			Pending:   counts.PendingPosts,
			Failed:    counts.FailedPosts,
		},
		SocialAccounts: counts.ActiveAccounts,
		RecentActivity: make([]dto.GeneratedPostDTO, 0, len(recent)),
	}
	for _, post := range recent {
		postDTO, err := ToPostDTO(post)
		if err != nil {
			return nil, err
		}
		overview.RecentActivity = append(overview.RecentActivity, *postDTO)
	}

	if raw, err := json.Marshal(overview); err == nil {
		if err = s.cache.SetWithExpiration(ctx, key, raw, overviewCacheTTL); err != nil {
			log.WarnContext(ctx, "cache overview failed", "err", err)
		}
	}
	return overview, nil
}

// GetPostStats 统计最近 days 天已发布帖子，互动数取每个帖子最新的一次快照
func (s *AnalyticsServiceImpl) GetPostStats(ctx context.Context, userID uint64, days int) (*dto.PostStatsDTO, error) {
	if days <= 0 {
		days = consts.DefaultStatsDays
	}
	since := s.now().UTC().AddDate(0, 0, -days)

	posts, err := s.postRepo.ListPublishedSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}
	latest, err := s.snapshotRepo.LatestByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	stats := &dto.PostStatsDTO{
		Days:          days,
		TotalPosts:    int64(len(posts)),
		PlatformStats: make(map[string]dto.EngagementDTO),
		DailyStats:    make(map[string]dto.EngagementDTO),
	}
	for _, post := range posts {
		snapshot := latest[post.ID]
		platformKey := string(post.Platform)
		stats.PlatformStats[platformKey] = addEngagement(stats.PlatformStats[platformKey], snapshot)

		if post.PublishedAt != nil {
			day := post.PublishedAt.UTC().Format(time.DateOnly)
			stats.DailyStats[day] = addEngagement(stats.DailyStats[day], snapshot)
		}
	}
	return stats, nil
}

func (s *AnalyticsServiceImpl) GetSourceStats(ctx context.Context, userID uint64) ([]*dto.SourceStatsDTO, error) {
	sourceStats, err := s.analyticsRepo.SourceStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.SourceStatsDTO, 0, len(sourceStats))
	for _, stat := range sourceStats {
		result = append(result, &dto.SourceStatsDTO{
			ID:           stat.ID,
			Name:         stat.Name,
			URL:          stat.URL,
			IsActive:     stat.IsActive,
			TotalContent: stat.TotalContent,
			TotalPosts:   stat.TotalPosts,
			LastCrawled:  stat.LastCrawled,
		})
	}
	return result, nil
}

func addEngagement(acc dto.EngagementDTO, snapshot *model.PostAnalytics) dto.EngagementDTO {
	acc.Posts++
	if snapshot == nil {
		return acc
	}
	acc.Likes += snapshot.Likes
	acc.Shares += snapshot.Shares
	acc.Comments += snapshot.Comments
	acc.Views += snapshot.Views
	return acc
}
