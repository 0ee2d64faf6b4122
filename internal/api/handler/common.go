package handler

import (
	"Autopost/internal/pkg/response"
	"Autopost/internal/pkg/util"
	"Autopost/internal/service"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const userIDKey = "user_id"

// bindJSON 绑定并校验请求体，失败时已写出响应
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		bindFailed(c, err)
		return false
	}
	if err := util.ValidateDTO(obj); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}

// bindQuery 绑定并校验查询参数
func bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		bindFailed(c, err)
		return false
	}
	if err := util.ValidateDTO(obj); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}

func bindFailed(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		response.Error(c, err)
		return
	}
	log.DebugContext(c.Request.Context(), "bind request failed", "err", err)
	response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
}

// pathID 解析路径中的 :id
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return 0, false
	}
	return id, true
}
