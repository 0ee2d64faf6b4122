package util

import (
	"Autopost/internal/pkg/consts"
	"net/url"
	"strings"
)

// IsHTTPURL 只接受带 host 的 http/https 地址
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// NormalizePage 填充默认分页并返回 offset
func NormalizePage(page, limit int) (int, int, int) {
	if page <= 0 {
		page = consts.DefaultPage
	}
	if limit <= 0 {
		limit = consts.DefaultPageSize
	}
	if limit > consts.MaxPageSize {
		limit = consts.MaxPageSize
	}
	return page, limit, (page - 1) * limit
}

// Ptr 返回值的指针
func Ptr[T any](v T) *T {
	return &v
}

// Deref 指针为空时返回零值
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// TruncateRunes 按字符截断
func TruncateRunes(s string, n int) string {
	if n < 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
