package handler

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/pkg/response"
	"Autopost/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

type GeneratedPostHandler struct {
	postSvc       service.GeneratedPostService
	generationSvc service.GenerationService
}

func NewGeneratedPostHandler(postSvc service.GeneratedPostService, generationSvc service.GenerationService) *GeneratedPostHandler {
	return &GeneratedPostHandler{
		postSvc:       postSvc,
		generationSvc: generationSvc,
	}
}

func (s *GeneratedPostHandler) ListPosts(c *gin.Context) {
	var query dto.GeneratedPostQuery
	if !bindQuery(c, &query) {
		return
	}
	page, err := s.postSvc.ListPosts(c.Request.Context(), c.GetUint64(userIDKey), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *GeneratedPostHandler) CreatePost(c *gin.Context) {
	var createDTO dto.CreatePostDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	post, err := s.postSvc.CreatePost(c.Request.Context(), c.GetUint64(userIDKey), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *GeneratedPostHandler) GeneratePost(c *gin.Context) {
	var generateDTO dto.GeneratePostDTO
	if !bindJSON(c, &generateDTO) {
		return
	}
	post, err := s.postSvc.GeneratePost(c.Request.Context(), c.GetUint64(userIDKey), &generateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *GeneratedPostHandler) GenerateVariants(c *gin.Context) {
	var variantsDTO dto.GenerateVariantsDTO
	if !bindJSON(c, &variantsDTO) {
		return
	}
	variants, err := s.postSvc.GenerateVariants(c.Request.Context(), c.GetUint64(userIDKey), &variantsDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, variants)
}

func (s *GeneratedPostHandler) GetPost(c *gin.Context) {
	s.withPost(c, s.postSvc.GetPost)
}

func (s *GeneratedPostHandler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var updateDTO dto.UpdatePostDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	post, err := s.postSvc.UpdatePost(c.Request.Context(), c.GetUint64(userIDKey), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *GeneratedPostHandler) DeletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.postSvc.DeletePost(c.Request.Context(), c.GetUint64(userIDKey), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *GeneratedPostHandler) ApprovePost(c *gin.Context) {
	s.withPost(c, s.postSvc.ApprovePost)
}

func (s *GeneratedPostHandler) RejectPost(c *gin.Context) {
	s.withPost(c, s.postSvc.RejectPost)
}

func (s *GeneratedPostHandler) RetryPost(c *gin.Context) {
	s.withPost(c, s.postSvc.RetryPost)
}

func (s *GeneratedPostHandler) PublishPost(c *gin.Context) {
	s.withPost(c, s.postSvc.PublishPost)
}

// GenerationLogs 当前用户最近的 AI 生成记录
func (s *GeneratedPostHandler) GenerationLogs(c *gin.Context) {
	logs, err := s.generationSvc.ListGenerationLogs(c.Request.Context(), c.GetUint64(userIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, logs)
}

func (s *GeneratedPostHandler) withPost(c *gin.Context, fn func(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	post, err := fn(c.Request.Context(), c.GetUint64(userIDKey), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}
