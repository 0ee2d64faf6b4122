package handler

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/pkg/response"
	"Autopost/internal/service"

	"github.com/gin-gonic/gin"
)

type DiscoveredContentHandler struct {
	contentSvc service.DiscoveredContentService
}

func NewDiscoveredContentHandler(contentSvc service.DiscoveredContentService) *DiscoveredContentHandler {
	return &DiscoveredContentHandler{
		contentSvc: contentSvc,
	}
}

func (s *DiscoveredContentHandler) ListContent(c *gin.Context) {
	var query dto.DiscoveredContentQuery
	if !bindQuery(c, &query) {
		return
	}
	page, err := s.contentSvc.ListContent(c.Request.Context(), c.GetUint64(userIDKey), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *DiscoveredContentHandler) SearchContent(c *gin.Context) {
	var query dto.SearchContentQuery
	if !bindQuery(c, &query) {
		return
	}
	page, err := s.contentSvc.SearchContent(c.Request.Context(), c.GetUint64(userIDKey), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *DiscoveredContentHandler) GetContent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	content, err := s.contentSvc.GetContent(c.Request.Context(), c.GetUint64(userIDKey), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, content)
}

func (s *DiscoveredContentHandler) UpdateContent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var updateDTO dto.UpdateDiscoveredContentDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	content, err := s.contentSvc.UpdateProcessed(c.Request.Context(), c.GetUint64(userIDKey), id, *updateDTO.IsProcessed)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, content)
}

func (s *DiscoveredContentHandler) DeleteContent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.contentSvc.DeleteContent(c.Request.Context(), c.GetUint64(userIDKey), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *DiscoveredContentHandler) SummarizeContent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	summary, err := s.contentSvc.SummarizeContent(c.Request.Context(), c.GetUint64(userIDKey), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"summary": summary})
}
