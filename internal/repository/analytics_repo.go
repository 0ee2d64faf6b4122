package repository

import (
	"Autopost/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// OverviewCounts 概览计数
type OverviewCounts struct {
	TotalSources       int64
	ActiveSources      int64
	TotalContent       int64
	UnprocessedContent int64
	TotalPosts         int64
	PublishedPosts     int64
	PendingPosts       int64
	FailedPosts        int64
	ActiveAccounts     int64
}

// SourceStat 单个内容源的统计
type SourceStat struct {
	ID           uint64
	Name         string
	URL          string
	IsActive     bool
	LastCrawled  *time.Time
	TotalContent int64
	TotalPosts   int64
}

type AnalyticsRepo interface {
	CountOverview(ctx context.Context, userID uint64) (*OverviewCounts, error)
	SourceStats(ctx context.Context, userID uint64) ([]*SourceStat, error)
}

type AnalyticsRepoImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) AnalyticsRepo {
	return &AnalyticsRepoImpl{db: db}
}

func (s *AnalyticsRepoImpl) CountOverview(ctx context.Context, userID uint64) (*OverviewCounts, error) {
	db := s.db.WithContext(ctx)
	c := &OverviewCounts{}

	counts := []struct {
		model any
		where string
		args  []any
		dest  *int64
	}{
		{&model.ContentSource{}, "user_id = ?", []any{userID}, &c.TotalSources},
		{&model.ContentSource{}, "user_id = ? AND is_active = ?", []any{userID, true}, &c.ActiveSources},
		{&model.DiscoveredContent{}, "user_id = ?", []any{userID}, &c.TotalContent},
		{&model.DiscoveredContent{}, "user_id = ? AND is_processed = ?", []any{userID, false}, &c.UnprocessedContent},
		{&model.GeneratedPost{}, "user_id = ?", []any{userID}, &c.TotalPosts},
		{&model.GeneratedPost{}, "user_id = ? AND status = ?", []any{userID, model.PostStatusPublished}, &c.PublishedPosts},
		{&model.GeneratedPost{}, "user_id = ? AND status = ?", []any{userID, model.PostStatusPendingApproval}, &c.PendingPosts},
		{&model.GeneratedPost{}, "user_id = ? AND status = ?", []any{userID, model.PostStatusFailed}, &c.FailedPosts},
		{&model.SocialAccount{}, "user_id = ? AND is_active = ?", []any{userID, true}, &c.ActiveAccounts},
	}
	for _, q := range counts {
		if err := db.Model(q.model).Where(q.where, q.args...).Count(q.dest).Error; err != nil {
			return nil, err
		}
	}
	return c, nil
}

const sourceStatsSQL = `
SELECT cs.id, cs.name, cs.url, cs.is_active, cs.last_crawled,
	(SELECT COUNT(*) FROM discovered_content dc WHERE dc.content_source_id = cs.id) AS total_content,
	(SELECT COUNT(*) FROM generated_posts gp
		JOIN discovered_content dc ON gp.discovered_content_id = dc.id
		WHERE dc.content_source_id = cs.id) AS total_posts
FROM content_sources cs
WHERE cs.user_id = ?
ORDER BY cs.created_at DESC`

func (s *AnalyticsRepoImpl) SourceStats(ctx context.Context, userID uint64) ([]*SourceStat, error) {
	stats := make([]*SourceStat, 0)
	if err := s.db.WithContext(ctx).Raw(sourceStatsSQL, userID).Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
