package repository

import (
	"Autopost/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentSourceRepo interface {
	CreateSource(ctx context.Context, source *model.ContentSource) error
	GetSource(ctx context.Context, userID, id uint64) (*model.ContentSource, error)
	ListSources(ctx context.Context, userID uint64) ([]*model.ContentSource, error)
	ListActiveByType(ctx context.Context, sourceType model.SourceType) ([]*model.ContentSource, error)
	CountContentBySources(ctx context.Context, ids []uint64) (map[uint64]int64, error)
	UpdateSource(ctx context.Context, userID, id uint64, fields map[string]interface{}) (int64, error)
	UpdateLastCrawled(ctx context.Context, id uint64, at time.Time) error
	DeleteSourceWithContent(ctx context.Context, userID, id uint64) ([]uint64, bool, error)
}

type ContentSourceRepoImpl struct {
	db *gorm.DB
}

func NewContentSourceRepo(db *gorm.DB) ContentSourceRepo {
	return &ContentSourceRepoImpl{db: db}
}

func (s *ContentSourceRepoImpl) CreateSource(ctx context.Context, source *model.ContentSource) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(source).Error)
}

func (s *ContentSourceRepoImpl) GetSource(ctx context.Context, userID, id uint64) (*model.ContentSource, error) {
	source := &model.ContentSource{}
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(source).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return source, nil
}

func (s *ContentSourceRepoImpl) ListSources(ctx context.Context, userID uint64) ([]*model.ContentSource, error) {
	sources := make([]*model.ContentSource, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sources).Error
	if err != nil {
		return nil, err
	}
	return sources, nil
}

func (s *ContentSourceRepoImpl) ListActiveByType(ctx context.Context, sourceType model.SourceType) ([]*model.ContentSource, error) {
	sources := make([]*model.ContentSource, 0)
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND type = ?", true, sourceType).
		Order("id ASC").
		Find(&sources).Error
	if err != nil {
		return nil, err
	}
	return sources, nil
}

type sourceCount struct {
	ContentSourceID uint64
	Total           int64
}

func (s *ContentSourceRepoImpl) CountContentBySources(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	rows := make([]sourceCount, 0, len(ids))
	err := s.db.WithContext(ctx).
		Model(&model.DiscoveredContent{}).
		Select("content_source_id, COUNT(*) AS total").
		Where("content_source_id IN ?", ids).
		Group("content_source_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.ContentSourceID] = r.Total
	}
	return counts, nil
}

func (s *ContentSourceRepoImpl) UpdateSource(ctx context.Context, userID, id uint64, fields map[string]interface{}) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.ContentSource{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	return result.RowsAffected, translate(result.Error)
}

func (s *ContentSourceRepoImpl) UpdateLastCrawled(ctx context.Context, id uint64, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.ContentSource{}).
		Where("id = ?", id).
		Update("last_crawled", at).Error
}

// DeleteSourceWithContent 在事务中删除内容源及其全部内容，返回被删除的内容 ID
// 任一内容被帖子引用时返回 ErrReferenced，不存在时 found 为 false
func (s *ContentSourceRepoImpl) DeleteSourceWithContent(ctx context.Context, userID, id uint64) ([]uint64, bool, error) {
	var contentIDs []uint64
	found := true

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source model.ContentSource
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&source).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
				return nil
			}
			return err
		}

		var referenced int64
		err = tx.Model(&model.GeneratedPost{}).
			Where("discovered_content_id IN (?)",
				tx.Model(&model.DiscoveredContent{}).Select("id").Where("content_source_id = ?", id)).
			Count(&referenced).Error
		if err != nil {
			return err
		}
		if referenced > 0 {
			return ErrReferenced
		}

		err = tx.Model(&model.DiscoveredContent{}).
			Where("content_source_id = ?", id).
			Pluck("id", &contentIDs).Error
		if err != nil {
			return err
		}
		if err = tx.Where("content_source_id = ?", id).Delete(&model.DiscoveredContent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ContentSource{}, id).Error
	})
	if err != nil {
		return nil, false, err
	}
	return contentIDs, found, nil
}
