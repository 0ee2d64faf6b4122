package response

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/service"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// 业务码与 service 层保持一致，HTTP 状态码恒为 200
const (
	Ok                  = http.StatusOK
	BadRequest          = service.BadRequest
	Unauthorized        = service.Unauthorized
	InternalServerError = service.InternalServerError
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
	})
}

// Error 按错误类型转换为业务码，未登记的错误统一按 500 处理并记录日志
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, describeValidation(ve))
		return
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	if errors.As(err, &typeErr) || errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) {
		Fail(c, BadRequest, "请求体格式错误")
		return
	}

	code, ok := service.CodeOf(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "Unhandled error", "path", c.FullPath(), "err", err)
		Fail(c, InternalServerError, service.UnExpectedError.Error())
		return
	}
	Fail(c, code, err.Error())
}

// describeValidation 只返回第一个失败字段
func describeValidation(ve validator.ValidationErrors) string {
	if len(ve) == 0 {
		return service.ErrParamInvalid.Error()
	}
	fe := ve[0]
	return fmt.Sprintf("%s: %s 校验失败(%s)", service.ErrParamInvalid.Error(), fe.Field(), fe.Tag())
}
