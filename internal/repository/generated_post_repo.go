package repository

import (
	"Autopost/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter 帖子列表查询条件，空字段不参与过滤
type PostFilter struct {
	UserID   uint64
	Status   *model.PostStatus
	Platform *model.Platform
	Offset   int
	Limit    int
}

type GeneratedPostRepo interface {
	CreatePost(ctx context.Context, post *model.GeneratedPost) error
	GetPost(ctx context.Context, userID, id uint64) (*model.GeneratedPost, error)
	ExistsPost(ctx context.Context, id uint64) (bool, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]*model.GeneratedPost, int64, error)
	ListRecentPosts(ctx context.Context, userID uint64, limit int) ([]*model.GeneratedPost, error)
	ListPublishedSince(ctx context.Context, userID uint64, since time.Time) ([]*model.GeneratedPost, error)
	UpdatePostIfStatus(ctx context.Context, id uint64, from []model.PostStatus, fields map[string]interface{}) (bool, error)
	DeletePostUnlessStatus(ctx context.Context, userID, id uint64, keep model.PostStatus) (bool, error)
}

type GeneratedPostRepoImpl struct {
	db *gorm.DB
}

func NewGeneratedPostRepo(db *gorm.DB) GeneratedPostRepo {
	return &GeneratedPostRepoImpl{db: db}
}

func (s *GeneratedPostRepoImpl) CreatePost(ctx context.Context, post *model.GeneratedPost) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

func (s *GeneratedPostRepoImpl) GetPost(ctx context.Context, userID, id uint64) (*model.GeneratedPost, error) {
	post := &model.GeneratedPost{}
	err := s.db.WithContext(ctx).
		Preload("DiscoveredContent").
		Preload("SocialAccount").
		Where("id = ? AND user_id = ?", id, userID).
		First(post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

func (s *GeneratedPostRepoImpl) ExistsPost(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.GeneratedPost{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (s *GeneratedPostRepoImpl) ListPosts(ctx context.Context, filter PostFilter) ([]*model.GeneratedPost, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&model.GeneratedPost{}).
		Where("user_id = ?", filter.UserID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Platform != nil {
		query = query.Where("platform = ?", *filter.Platform)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := make([]*model.GeneratedPost, 0, filter.Limit)
	err := query.
		Preload("DiscoveredContent").
		Preload("SocialAccount").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *GeneratedPostRepoImpl) ListRecentPosts(ctx context.Context, userID uint64, limit int) ([]*model.GeneratedPost, error) {
	posts := make([]*model.GeneratedPost, 0, limit)
	err := s.db.WithContext(ctx).
		Preload("DiscoveredContent").
		Preload("SocialAccount").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *GeneratedPostRepoImpl) ListPublishedSince(ctx context.Context, userID uint64, since time.Time) ([]*model.GeneratedPost, error) {
	posts := make([]*model.GeneratedPost, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND published_at >= ?", userID, model.PostStatusPublished, since).
		Order("published_at ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePostIfStatus 仅当当前状态属于 from 时更新，返回是否命中
func (s *GeneratedPostRepoImpl) UpdatePostIfStatus(ctx context.Context, id uint64, from []model.PostStatus, fields map[string]interface{}) (bool, error) {
	fields["updated_at"] = time.Now()
	result := s.db.WithContext(ctx).
		Model(&model.GeneratedPost{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeletePostUnlessStatus 状态为 keep 的帖子不会被删除
func (s *GeneratedPostRepoImpl) DeletePostUnlessStatus(ctx context.Context, userID, id uint64, keep model.PostStatus) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status <> ?", id, userID, keep).
		Delete(&model.GeneratedPost{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
