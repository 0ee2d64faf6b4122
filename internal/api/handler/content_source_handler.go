package handler

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/pkg/response"
	"Autopost/internal/service"

	"github.com/gin-gonic/gin"
)

type ContentSourceHandler struct {
	sourceSvc  service.ContentSourceService
	crawlerSvc service.CrawlerService
}

func NewContentSourceHandler(sourceSvc service.ContentSourceService, crawlerSvc service.CrawlerService) *ContentSourceHandler {
	return &ContentSourceHandler{
		sourceSvc:  sourceSvc,
		crawlerSvc: crawlerSvc,
	}
}

func (s *ContentSourceHandler) ListSources(c *gin.Context) {
	sources, err := s.sourceSvc.ListSources(c.Request.Context(), c.GetUint64(userIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sources)
}

func (s *ContentSourceHandler) CreateSource(c *gin.Context) {
	var createDTO dto.CreateContentSourceDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	source, err := s.sourceSvc.CreateSource(c.Request.Context(), c.GetUint64(userIDKey), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, source)
}

func (s *ContentSourceHandler) GetSource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	source, err := s.sourceSvc.GetSource(c.Request.Context(), c.GetUint64(userIDKey), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, source)
}

func (s *ContentSourceHandler) UpdateSource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var updateDTO dto.UpdateContentSourceDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	source, err := s.sourceSvc.UpdateSource(c.Request.Context(), c.GetUint64(userIDKey), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, source)
}

func (s *ContentSourceHandler) DeleteSource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.sourceSvc.DeleteSource(c.Request.Context(), c.GetUint64(userIDKey), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CrawlSource 手动触发一次抓取，同步返回新增条数
func (s *ContentSourceHandler) CrawlSource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := s.crawlerSvc.CrawlSourceByID(c.Request.Context(), c.GetUint64(userIDKey), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
