package repository

import (
	"Autopost/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostAnalyticsRepo interface {
	CreateSnapshot(ctx context.Context, snapshot *model.PostAnalytics) error
	ListByPost(ctx context.Context, postID uint64) ([]*model.PostAnalytics, error)
	LatestByPosts(ctx context.Context, postIDs []uint64) (map[uint64]*model.PostAnalytics, error)
}

type PostAnalyticsRepoImpl struct {
	db *gorm.DB
}

func NewPostAnalyticsRepo(db *gorm.DB) PostAnalyticsRepo {
	return &PostAnalyticsRepoImpl{db: db}
}

func (s *PostAnalyticsRepoImpl) CreateSnapshot(ctx context.Context, snapshot *model.PostAnalytics) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(snapshot).Error
}

func (s *PostAnalyticsRepoImpl) ListByPost(ctx context.Context, postID uint64) ([]*model.PostAnalytics, error) {
	snapshots := make([]*model.PostAnalytics, 0)
	err := s.db.WithContext(ctx).
		Where("generated_post_id = ?", postID).
		Order("recorded_at DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// LatestByPosts 每个帖子取最新一条快照
func (s *PostAnalyticsRepoImpl) LatestByPosts(ctx context.Context, postIDs []uint64) (map[uint64]*model.PostAnalytics, error) {
	latest := make(map[uint64]*model.PostAnalytics, len(postIDs))
	if len(postIDs) == 0 {
		return latest, nil
	}
	snapshots := make([]*model.PostAnalytics, 0)
	err := s.db.WithContext(ctx).
		Where("generated_post_id IN ?", postIDs).
		Order("recorded_at DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	for _, snap := range snapshots {
		if _, ok := latest[snap.GeneratedPostID]; !ok {
			latest[snap.GeneratedPostID] = snap
		}
	}
	return latest, nil
}
