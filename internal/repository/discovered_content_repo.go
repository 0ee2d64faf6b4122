package repository

import (
	"Autopost/internal/model"
	"Autopost/internal/pkg/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentFilter 内容列表查询条件，nil 字段不参与过滤
type ContentFilter struct {
	UserID      uint64
	SourceID    *uint64
	IsProcessed *bool
	Offset      int
	Limit       int
}

type DiscoveredContentRepo interface {
	CreateIfAbsent(ctx context.Context, content *model.DiscoveredContent) (bool, error)
	GetContent(ctx context.Context, userID, id uint64) (*model.DiscoveredContent, error)
	GetContentByIDs(ctx context.Context, userID uint64, ids []uint64) ([]*model.DiscoveredContent, error)
	ListContent(ctx context.Context, filter ContentFilter) ([]*model.DiscoveredContent, int64, error)
	SearchContent(ctx context.Context, userID uint64, keyword string, offset, limit int) ([]*model.DiscoveredContent, int64, error)
	UpdateProcessed(ctx context.Context, userID, id uint64, processed bool) (int64, error)
	DeleteContent(ctx context.Context, userID, id uint64) (bool, error)
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) ([]uint64, error)
}

type DiscoveredContentRepoImpl struct {
	db *gorm.DB
}

func NewDiscoveredContentRepo(db *gorm.DB) DiscoveredContentRepo {
	return &DiscoveredContentRepoImpl{db: db}
}

// CreateIfAbsent 依赖 (content_source_id, url_hash) 唯一索引，已存在时不插入并返回 false
// URL 超长返回 ErrURLTooLong，不发出任何 SQL
func (s *DiscoveredContentRepoImpl) CreateIfAbsent(ctx context.Context, content *model.DiscoveredContent) (bool, error) {
	if len(content.URL) > model.MaxContentURLLength {
		return false, ErrURLTooLong
	}
	content.Title = util.TruncateRunes(content.Title, model.MaxContentTitleRunes)
	content.URLHash = model.HashURL(content.URL)

	result := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(content)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *DiscoveredContentRepoImpl) GetContent(ctx context.Context, userID, id uint64) (*model.DiscoveredContent, error) {
	content := &model.DiscoveredContent{}
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return content, nil
}

func (s *DiscoveredContentRepoImpl) GetContentByIDs(ctx context.Context, userID uint64, ids []uint64) ([]*model.DiscoveredContent, error) {
	contents := make([]*model.DiscoveredContent, 0, len(ids))
	if len(ids) == 0 {
		return contents, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&contents).Error
	if err != nil {
		return nil, err
	}
	return contents, nil
}

func (s *DiscoveredContentRepoImpl) ListContent(ctx context.Context, filter ContentFilter) ([]*model.DiscoveredContent, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&model.DiscoveredContent{}).
		Where("user_id = ?", filter.UserID)
	if filter.SourceID != nil {
		query = query.Where("content_source_id = ?", *filter.SourceID)
	}
	if filter.IsProcessed != nil {
		query = query.Where("is_processed = ?", *filter.IsProcessed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	contents := make([]*model.DiscoveredContent, 0, filter.Limit)
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&contents).Error
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

// SearchContent 标题模糊匹配，Elasticsearch 不可用时使用
func (s *DiscoveredContentRepoImpl) SearchContent(ctx context.Context, userID uint64, keyword string, offset, limit int) ([]*model.DiscoveredContent, int64, error) {
	like := "%" + keyword + "%"
	query := s.db.WithContext(ctx).
		Model(&model.DiscoveredContent{}).
		Where("user_id = ?", userID).
		Where("title LIKE ? OR content LIKE ?", like, like)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	contents := make([]*model.DiscoveredContent, 0, limit)
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&contents).Error
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

func (s *DiscoveredContentRepoImpl) UpdateProcessed(ctx context.Context, userID, id uint64, processed bool) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.DiscoveredContent{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_processed", processed)
	return result.RowsAffected, result.Error
}

// DeleteContent 单条删除，被帖子引用时返回 ErrReferenced
func (s *DiscoveredContentRepoImpl) DeleteContent(ctx context.Context, userID, id uint64) (bool, error) {
	found := true
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var content model.DiscoveredContent
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&content).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
				return nil
			}
			return err
		}

		var referenced int64
		err = tx.Model(&model.GeneratedPost{}).
			Where("discovered_content_id = ?", id).
			Count(&referenced).Error
		if err != nil {
			return err
		}
		if referenced > 0 {
			return ErrReferenced
		}
		return tx.Delete(&model.DiscoveredContent{}, id).Error
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

const unreferenced = "NOT EXISTS (SELECT 1 FROM generated_posts gp WHERE gp.discovered_content_id = discovered_content.id)"

// DeleteProcessedBefore 删除 cutoff 之前创建、已处理且未被引用的内容，返回删除的 ID
func (s *DiscoveredContentRepoImpl) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.DiscoveredContent{}).
			Where("is_processed = ? AND created_at < ?", true, cutoff).
			Where(unreferenced).
			Pluck("id", &ids).Error
		if err != nil || len(ids) == 0 {
			return err
		}
		return tx.Where("id IN ?", ids).
			Where(unreferenced).
			Delete(&model.DiscoveredContent{}).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
