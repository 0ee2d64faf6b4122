package llm

import (
	"Autopost/internal/api/config"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/semaphore"
)

var (
	ErrEmptyResponse = errors.New("AI大模型返回为空")
	ErrEmptyPrompt   = errors.New("prompt为空")
)

// Request 一次文本生成请求，Messages 由 Prompts 渲染
type Request struct {
	Messages    []llms.MessageContent
	MaxTokens   int
	Temperature float64
}

// Generator 文本生成
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// LangChainGenerator 通过 langchaingo 调用 OpenAI 兼容接口，并发由信号量限制
type LangChainGenerator struct {
	model     llms.Model
	modelName string
	sem       *semaphore.Weighted
}

// NewLangChainGenerator 按配置创建 OpenAI 兼容客户端
func NewLangChainGenerator(cfg config.LLMConfig) (*LangChainGenerator, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.TextModel),
		openai.WithToken(cfg.ApiKey),
	}
	if cfg.URL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.URL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return nil, err
	}

	return NewGenerator(model, cfg.TextModel, cfg.MaxConcurrency), nil
}

// NewGenerator 包装任意 llms.Model
func NewGenerator(model llms.Model, modelName string, maxConcurrency int64) *LangChainGenerator {
	if maxConcurrency <= 0 {
		maxConcurrency = 5
	}
	return &LangChainGenerator{
		model:     model,
		modelName: modelName,
		sem:       semaphore.NewWeighted(maxConcurrency),
	}
}

func (g *LangChainGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer g.sem.Release(1)

	if len(req.Messages) == 0 {
		return "", ErrEmptyPrompt
	}

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if g.modelName != "" {
		opts = append(opts, llms.WithModel(g.modelName))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	start := time.Now()
	log.InfoContext(ctx, "正在请求AI大模型")
	resp, err := g.model.GenerateContent(ctx, req.Messages, opts...)
	if err != nil {
		log.ErrorContext(ctx, "AI大模型请求失败", "err", err, "latency", time.Since(start))
		return "", err
	}
	log.InfoContext(ctx, "AI大模型请求成功", "latency", time.Since(start))

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", fmt.Errorf("%w: stop_reason=%s", ErrEmptyResponse, resp.Choices[0].StopReason)
	}
	return text, nil
}
