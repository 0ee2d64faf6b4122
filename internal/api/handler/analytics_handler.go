package handler

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/pkg/response"
	"Autopost/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
	}
}

func (s *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := s.analyticsSvc.GetOverview(c.Request.Context(), c.GetUint64(userIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, overview)
}

func (s *AnalyticsHandler) PostStats(c *gin.Context) {
	var query dto.PostStatsQuery
	if !bindQuery(c, &query) {
		return
	}
	stats, err := s.analyticsSvc.GetPostStats(c.Request.Context(), c.GetUint64(userIDKey), query.Days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *AnalyticsHandler) SourceStats(c *gin.Context) {
	stats, err := s.analyticsSvc.GetSourceStats(c.Request.Context(), c.GetUint64(userIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
