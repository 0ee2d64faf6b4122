package service

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/model"
	"Autopost/internal/pkg/es"
	"Autopost/internal/pkg/util"
	"Autopost/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"

	"github.com/jinzhu/copier"
)

type DiscoveredContentService interface {
	ListContent(ctx context.Context, userID uint64, query *dto.DiscoveredContentQuery) (*dto.PageResult[*dto.DiscoveredContentDTO], error)
	SearchContent(ctx context.Context, userID uint64, query *dto.SearchContentQuery) (*dto.PageResult[*dto.DiscoveredContentDTO], error)
	GetContent(ctx context.Context, userID, id uint64) (*dto.DiscoveredContentDTO, error)
	UpdateProcessed(ctx context.Context, userID, id uint64, processed bool) (*dto.DiscoveredContentDTO, error)
	DeleteContent(ctx context.Context, userID, id uint64) error
	SummarizeContent(ctx context.Context, userID, id uint64) (string, error)
}

type DiscoveredContentServiceImpl struct {
	contentRepo repository.DiscoveredContentRepo
	contentES   es.ContentRepo
	generation  GenerationService
}

func NewDiscoveredContentService(contentRepo repository.DiscoveredContentRepo, contentES es.ContentRepo, generation GenerationService) DiscoveredContentService {
	return &DiscoveredContentServiceImpl{
		contentRepo: contentRepo,
		contentES:   contentES,
		generation:  generation,
	}
}

func (s *DiscoveredContentServiceImpl) ListContent(ctx context.Context, userID uint64, query *dto.DiscoveredContentQuery) (*dto.PageResult[*dto.DiscoveredContentDTO], error) {
	page, limit, offset := util.NormalizePage(query.Page, query.Limit)
	contents, total, err := s.contentRepo.ListContent(ctx, repository.ContentFilter{
		UserID:      userID,
		SourceID:    query.SourceID,
		IsProcessed: query.IsProcessed,
		Offset:      offset,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	return toContentPage(contents, page, limit, total)
}

// SearchContent 优先走 ES，ES 未配置或失败时回退到数据库 LIKE 查询
func (s *DiscoveredContentServiceImpl) SearchContent(ctx context.Context, userID uint64, query *dto.SearchContentQuery) (*dto.PageResult[*dto.DiscoveredContentDTO], error) {
	keyword := strings.TrimSpace(query.Keyword)
	if keyword == "" {
		return nil, ErrParamInvalid
	}
	page, limit, offset := util.NormalizePage(query.Page, query.Limit)

	ids, total, err := s.contentES.SearchContent(ctx, userID, keyword, offset, limit)
	if err == nil {
		contents, err := s.contentRepo.GetContentByIDs(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
		return toContentPage(orderByIDs(contents, ids), page, limit, total)
	}
	if !errors.Is(err, es.ErrDisabled) {
		log.WarnContext(ctx, "es search failed, fallback to db", "err", err)
	}

	contents, total, err := s.contentRepo.SearchContent(ctx, userID, keyword, offset, limit)
	if err != nil {
		return nil, err
	}
	return toContentPage(contents, page, limit, total)
}

func (s *DiscoveredContentServiceImpl) GetContent(ctx context.Context, userID, id uint64) (*dto.DiscoveredContentDTO, error) {
	content, err := s.getContent(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toContentDTO(content)
}

func (s *DiscoveredContentServiceImpl) UpdateProcessed(ctx context.Context, userID, id uint64, processed bool) (*dto.DiscoveredContentDTO, error) {
	content, err := s.getContent(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if content.IsProcessed != processed {
		if _, err = s.contentRepo.UpdateProcessed(ctx, userID, id, processed); err != nil {
			return nil, err
		}
		content.IsProcessed = processed
	}
	return toContentDTO(content)
}

func (s *DiscoveredContentServiceImpl) DeleteContent(ctx context.Context, userID, id uint64) error {
	deleted, err := s.contentRepo.DeleteContent(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return ErrContentReferenced
		}
		return err
	}
	if !deleted {
		return ErrContentNotFound
	}
	if err = s.contentES.DeleteContent(ctx, id); err != nil {
		log.WarnContext(ctx, "delete content from es failed", "content_id", id, "err", err)
	}
	return nil
}

func (s *DiscoveredContentServiceImpl) SummarizeContent(ctx context.Context, userID, id uint64) (string, error) {
	content, err := s.getContent(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return s.generation.SummarizeContent(ctx, userID, content.Title, util.Deref(content.Content))
}

func (s *DiscoveredContentServiceImpl) getContent(ctx context.Context, userID, id uint64) (*model.DiscoveredContent, error) {
	content, err := s.contentRepo.GetContent(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrContentNotFound
	}
	return content, nil
}

// orderByIDs 按 ES 的相关度顺序重排，ES 中残留但库中已删除的记录被丢弃
func orderByIDs(contents []*model.DiscoveredContent, ids []uint64) []*model.DiscoveredContent {
	byID := make(map[uint64]*model.DiscoveredContent, len(contents))
	for _, content := range contents {
		byID[content.ID] = content
	}
	ordered := make([]*model.DiscoveredContent, 0, len(contents))
	for _, id := range ids {
		if content, ok := byID[id]; ok {
			ordered = append(ordered, content)
		}
	}
	return ordered
}

func toContentDTO(content *model.DiscoveredContent) (*dto.DiscoveredContentDTO, error) {
	contentDTO := &dto.DiscoveredContentDTO{}
	if err := copier.Copy(contentDTO, content); err != nil {
		return nil, err
	}
	return contentDTO, nil
}

func toContentPage(contents []*model.DiscoveredContent, page, limit int, total int64) (*dto.PageResult[*dto.DiscoveredContentDTO], error) {
	data := make([]*dto.DiscoveredContentDTO, 0, len(contents))
	for _, content := range contents {
		contentDTO, err := toContentDTO(content)
		if err != nil {
			return nil, err
		}
		data = append(data, contentDTO)
	}
	return &dto.PageResult[*dto.DiscoveredContentDTO]{
		Data:       data,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}
