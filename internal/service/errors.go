package service

import (
	"Autopost/internal/pkg/util"
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InvalidState        = 422
	InternalServerError = 500
	UpstreamFailure     = 502
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrInvalidURL          = errors.New("URL 格式不正确")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrUserExist           = errors.New("邮箱已注册")
	ErrPasswordIncorrect   = errors.New("邮箱或密码错误")
	ErrSourceNotFound      = errors.New("内容源不存在")
	ErrSourceNotActive     = errors.New("内容源未启用")
	ErrSourceReferenced    = errors.New("内容源下的内容已被帖子引用")
	ErrCrawlInProgress     = errors.New("内容源正在抓取中")
	ErrContentNotFound     = errors.New("内容不存在")
	ErrContentReferenced   = errors.New("内容已被帖子引用")
	ErrAccountNotFound     = errors.New("社交账号不存在")
	ErrAccountExist        = errors.New("该平台账号已存在")
	ErrAccountReferenced   = errors.New("社交账号已被帖子引用")
	ErrInvalidCredentials  = errors.New("平台凭据校验失败")
	ErrPostNotFound        = errors.New("帖子不存在")
	ErrPlatformMismatch    = errors.New("帖子平台与社交账号平台不一致")
	ErrContentTooLong      = errors.New("内容超过平台长度限制")
	ErrInvalidState        = errors.New("当前状态不允许该操作")
	ErrPublishInProgress   = errors.New("帖子正在发布中")
	ErrUnsupportedPlatform = errors.New("暂不支持该平台")
	ErrNotConfigured       = errors.New("社交账号未配置凭据")
	ErrGenerationFailed    = errors.New("AI 生成失败")
	ErrPublishFailed       = errors.New("发布失败")
	ErrFetchFailed         = errors.New("内容源抓取失败")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	util.ErrValidation:     BadRequest,
	ErrInvalidURL:          BadRequest,
	ErrUserNotFound:        NotFound,
	ErrUserExist:           Conflict,
	ErrPasswordIncorrect:   Unauthorized,
	ErrSourceNotFound:      NotFound,
	ErrSourceNotActive:     BadRequest,
	ErrSourceReferenced:    Conflict,
	ErrCrawlInProgress:     Conflict,
	ErrContentNotFound:     NotFound,
	ErrContentReferenced:   Conflict,
	ErrAccountNotFound:     NotFound,
	ErrAccountExist:        Conflict,
	ErrAccountReferenced:   Conflict,
	ErrInvalidCredentials:  BadRequest,
	ErrPostNotFound:        NotFound,
	ErrPlatformMismatch:    BadRequest,
	ErrContentTooLong:      BadRequest,
	ErrInvalidState:        InvalidState,
	ErrPublishInProgress:   Conflict,
	ErrUnsupportedPlatform: BadRequest,
	ErrNotConfigured:       BadRequest,
	ErrGenerationFailed:    UpstreamFailure,
	ErrPublishFailed:       BadRequest,
	ErrFetchFailed:         UpstreamFailure,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}

// CodeOf 返回 err 对应的业务码，支持被 %w 包装的错误
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}
