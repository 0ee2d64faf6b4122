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

type ContentSourceService interface {
	CreateSource(ctx context.Context, userID uint64, createDTO *dto.CreateContentSourceDTO) (*dto.ContentSourceDTO, error)
	GetSource(ctx context.Context, userID, id uint64) (*dto.ContentSourceDTO, error)
	ListSources(ctx context.Context, userID uint64) ([]*dto.ContentSourceDTO, error)
	UpdateSource(ctx context.Context, userID, id uint64, updateDTO *dto.UpdateContentSourceDTO) (*dto.ContentSourceDTO, error)
	DeleteSource(ctx context.Context, userID, id uint64) error
}

type ContentSourceServiceImpl struct {
	sourceRepo repository.ContentSourceRepo
	contentES  es.ContentRepo
}

func NewContentSourceService(sourceRepo repository.ContentSourceRepo, contentES es.ContentRepo) ContentSourceService {
	return &ContentSourceServiceImpl{
		sourceRepo: sourceRepo,
		contentES:  contentES,
	}
}

func (s *ContentSourceServiceImpl) CreateSource(ctx context.Context, userID uint64, createDTO *dto.CreateContentSourceDTO) (*dto.ContentSourceDTO, error) {
	url := strings.TrimSpace(createDTO.URL)
	if !util.IsHTTPURL(url) {
		return nil, ErrInvalidURL
	}

	sourceType := model.SourceTypeRSS
	if createDTO.Type != "" {
		sourceType = model.SourceType(createDTO.Type)
	}

	source := &model.ContentSource{
		UserID:   userID,
		Name:     strings.TrimSpace(createDTO.Name),
		URL:      url,
		Type:     sourceType,
		IsActive: true,
	}
	if err := s.sourceRepo.CreateSource(ctx, source); err != nil {
		return nil, err
	}
	return toSourceDTO(source, 0)
}

func (s *ContentSourceServiceImpl) GetSource(ctx context.Context, userID, id uint64) (*dto.ContentSourceDTO, error) {
	source, err := s.sourceRepo.GetSource(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrSourceNotFound
	}
	counts, err := s.sourceRepo.CountContentBySources(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	return toSourceDTO(source, counts[id])
}

func (s *ContentSourceServiceImpl) ListSources(ctx context.Context, userID uint64) ([]*dto.ContentSourceDTO, error) {
	sources, err := s.sourceRepo.ListSources(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(sources))
	for _, source := range sources {
		ids = append(ids, source.ID)
	}
	counts, err := s.sourceRepo.CountContentBySources(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ContentSourceDTO, 0, len(sources))
	for _, source := range sources {
		sourceDTO, err := toSourceDTO(source, counts[source.ID])
		if err != nil {
			return nil, err
		}
		result = append(result, sourceDTO)
	}
	return result, nil
}

func (s *ContentSourceServiceImpl) UpdateSource(ctx context.Context, userID, id uint64, updateDTO *dto.UpdateContentSourceDTO) (*dto.ContentSourceDTO, error) {
	source, err := s.sourceRepo.GetSource(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrSourceNotFound
	}

	fields := make(map[string]interface{})
	if updateDTO.Name != nil {
		fields["name"] = strings.TrimSpace(*updateDTO.Name)
	}
	if updateDTO.URL != nil {
		url := strings.TrimSpace(*updateDTO.URL)
		if !util.IsHTTPURL(url) {
			return nil, ErrInvalidURL
		}
		fields["url"] = url
	}
	if updateDTO.Type != nil {
		fields["type"] = model.SourceType(*updateDTO.Type)
	}
	if updateDTO.IsActive != nil {
		fields["is_active"] = *updateDTO.IsActive
	}

	if len(fields) > 0 {
		if _, err = s.sourceRepo.UpdateSource(ctx, userID, id, fields); err != nil {
			return nil, err
		}
	}
	return s.GetSource(ctx, userID, id)
}

// DeleteSource 连同其抓取内容一起删除，内容被帖子引用时拒绝
func (s *ContentSourceServiceImpl) DeleteSource(ctx context.Context, userID, id uint64) error {
	contentIDs, found, err := s.sourceRepo.DeleteSourceWithContent(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return ErrSourceReferenced
		}
		return err
	}
	if !found {
		return ErrSourceNotFound
	}

	for _, contentID := range contentIDs {
		if err = s.contentES.DeleteContent(ctx, contentID); err != nil {
			log.WarnContext(ctx, "delete content from es failed", "content_id", contentID, "err", err)
		}
	}
	return nil
}

func toSourceDTO(source *model.ContentSource, contentCount int64) (*dto.ContentSourceDTO, error) {
	sourceDTO := &dto.ContentSourceDTO{}
	if err := copier.Copy(sourceDTO, source); err != nil {
		return nil, err
	}
	sourceDTO.Type = string(source.Type)
	sourceDTO.ContentCount = contentCount
	return sourceDTO, nil
}
