package platform

import (
	"Autopost/internal/model"
	"context"
	"errors"
)

// Ellipsis 超长截断后追加的标记
const Ellipsis = "..."

var (
	ErrUnsupported = errors.New("platform has no publishing adapter")
	ErrUnknown     = errors.New("unknown platform")
)

// Credentials 用户级平台凭据
type Credentials struct {
	AccessToken  string
	AccessSecret string
}

// Adapter 平台发布适配器
type Adapter interface {
	// Publish 发布文本，返回平台侧帖子 ID
	Publish(ctx context.Context, text string, creds Credentials) (string, error)
	// VerifyCredentials 校验凭据是否可用
	VerifyCredentials(ctx context.Context, creds Credentials) error
}

// Capability 平台能力描述
type Capability struct {
	Platform  model.Platform
	MaxLength int
	Style     string
	Adapter   Adapter
}

// Supported 是否有发布适配器
func (c Capability) Supported() bool {
	return c.Adapter != nil
}

// Table 平台能力表，生成、编辑、发布都从这里取平台差异
type Table struct {
	caps map[model.Platform]Capability
}

// DefaultCapabilities 各平台长度上限和文风提示，不含适配器
func DefaultCapabilities() []Capability {
	return []Capability{
		{
			Platform:  model.PlatformTwitter,
			MaxLength: 280,
			Style:     "Use Twitter-style format with mentions and hashtags. Be concise and punchy.",
		},
		{
			Platform:  model.PlatformFacebook,
			MaxLength: 500,
			Style:     "Use Facebook-style format. Can be more conversational and include emojis.",
		},
		{
			Platform:  model.PlatformLinkedIn,
			MaxLength: 1300,
			Style:     "Use professional LinkedIn tone. Focus on insights and professional value.",
		},
		{
			Platform:  model.PlatformInstagram,
			MaxLength: 2200,
			Style:     "Use Instagram-style with emojis and engaging language. Include relevant hashtags.",
		},
	}
}

// NewTable 以默认能力为基础，adapters 按平台挂载
func NewTable(adapters map[model.Platform]Adapter) *Table {
	t := &Table{caps: make(map[model.Platform]Capability)}
	for _, c := range DefaultCapabilities() {
		if a, ok := adapters[c.Platform]; ok {
			c.Adapter = a
		}
		t.caps[c.Platform] = c
	}
	return t
}

// Lookup 查询平台能力
func (t *Table) Lookup(p model.Platform) (Capability, error) {
	c, ok := t.caps[p]
	if !ok {
		return Capability{}, ErrUnknown
	}
	return c, nil
}

// MaxLength 未知平台返回 0
func (t *Table) MaxLength(p model.Platform) int {
	return t.caps[p].MaxLength
}

// Adapter 平台没有适配器时返回 ErrUnsupported
func (t *Table) Adapter(p model.Platform) (Adapter, error) {
	c, err := t.Lookup(p)
	if err != nil {
		return nil, err
	}
	if !c.Supported() {
		return nil, ErrUnsupported
	}
	return c.Adapter, nil
}

// EnforceLimit 超过 limit 个字符时截断为 limit-3 个字符并追加 "..."
func EnforceLimit(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	keep := limit - len(Ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + Ellipsis
}

// WithinLimit 字符数是否不超过上限
func WithinLimit(text string, limit int) bool {
	return len([]rune(text)) <= limit
}
