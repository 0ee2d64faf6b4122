package llm

import (
	"Autopost/internal/api/config"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
)

var (
	postInputVariables = []string{
		"Platform", "Title", "Body", "URL", "Tone", "Style", "MaxLength", "IncludeHashtags", "IncludeURL",
	}
	summaryInputVariables = []string{"Title", "Body"}
)

// PostPromptData 生成帖子模板的参数
type PostPromptData struct {
	Platform        string
	Title           string
	Body            string
	URL             string
	Tone            string
	Style           string
	MaxLength       int
	IncludeHashtags bool
	IncludeURL      bool
}

func (d PostPromptData) values() map[string]any {
	return map[string]any{
		"Platform":        d.Platform,
		"Title":           d.Title,
		"Body":            d.Body,
		"URL":             d.URL,
		"Tone":            d.Tone,
		"Style":           d.Style,
		"MaxLength":       d.MaxLength,
		"IncludeHashtags": d.IncludeHashtags,
		"IncludeURL":      d.IncludeURL,
	}
}

// Prompts 帖子与摘要两套对话模板，启动时从 txt 文件读取
type Prompts struct {
	post    prompts.ChatPromptTemplate
	summary prompts.ChatPromptTemplate
}

// LoadPrompts 读取并解析全部模板文件
func LoadPrompts(paths config.PromptPathConfig) (*Prompts, error) {
	files := []string{paths.System, paths.Post, paths.SummarizeSystem, paths.Summarize}
	texts := make([]string, len(files))
	for i, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("读取prompt文件失败 %s: %w", file, err)
		}
		texts[i] = string(data)
	}
	return ParsePrompts(texts[0], texts[1], texts[2], texts[3])
}

// ParsePrompts 从字符串构建模板，Go template 语法，模板错误在启动时暴露
func ParsePrompts(system, post, summarySystem, summary string) (*Prompts, error) {
	checks := []struct {
		name string
		tpl  string
		vars []string
	}{
		{"system", system, nil},
		{"post", post, postInputVariables},
		{"summary-system", summarySystem, nil},
		{"summary", summary, summaryInputVariables},
	}
	for _, c := range checks {
		if err := prompts.CheckValidTemplate(c.tpl, prompts.TemplateFormatGoTemplate, c.vars); err != nil {
			return nil, fmt.Errorf("解析%s模板失败: %w", c.name, err)
		}
	}

	return &Prompts{
		post: prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
			prompts.NewSystemMessagePromptTemplate(strings.TrimSpace(system), nil),
			prompts.NewHumanMessagePromptTemplate(post, postInputVariables),
		}),
		summary: prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
			prompts.NewSystemMessagePromptTemplate(strings.TrimSpace(summarySystem), nil),
			prompts.NewHumanMessagePromptTemplate(summary, summaryInputVariables),
		}),
	}, nil
}

// RenderPost 返回 system + human 两条消息
func (p *Prompts) RenderPost(data PostPromptData) ([]llms.MessageContent, error) {
	return format(p.post, data.values())
}

func (p *Prompts) RenderSummary(title, body string) ([]llms.MessageContent, error) {
	return format(p.summary, map[string]any{"Title": title, "Body": body})
}

func format(tpl prompts.ChatPromptTemplate, values map[string]any) ([]llms.MessageContent, error) {
	messages, err := tpl.FormatMessages(values)
	if err != nil {
		return nil, err
	}
	contents := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		contents = append(contents, llms.TextParts(msg.GetType(), msg.GetContent()))
	}
	return contents, nil
}

// MessageText 取出指定角色消息的文本，多条时以换行拼接
func MessageText(messages []llms.MessageContent, role llms.ChatMessageType) string {
	var texts []string
	for _, msg := range messages {
		if msg.Role != role {
			continue
		}
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				texts = append(texts, text.Text)
			}
		}
	}
	return strings.Join(texts, "\n")
}
