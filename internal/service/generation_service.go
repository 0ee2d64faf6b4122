package service

import (
	"Autopost/internal/model"
	"Autopost/internal/pkg/llm"
	"Autopost/internal/pkg/mongo"
	"Autopost/internal/pkg/platform"
	"Autopost/internal/pkg/util"
	"context"
	"fmt"
	log "log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultTone         = "engaging"
	promptBodyLimit     = 500
	postMaxTokens       = 200
	postTemperature     = 0.7
	summaryMaxTokens    = 150
	summaryTemperature  = 0.3
	generationLogsLimit = 50
)

// Tones 批量生成时随机选择的语气
var Tones = []string{"professional", "casual", "engaging", "informative"}

// GenerateOptions 生成一条帖子所需的素材与选项，指针字段为空时使用默认值
type GenerateOptions struct {
	UserID          uint64
	Platform        model.Platform
	Title           string
	Body            string
	URL             string
	Tone            *string
	IncludeHashtags *bool
	IncludeURL      *bool
}

type GenerationService interface {
	GeneratePost(ctx context.Context, opts GenerateOptions) (string, error)
	GenerateMultiplePosts(ctx context.Context, opts GenerateOptions, count int) []string
	SummarizeContent(ctx context.Context, userID uint64, title, body string) (string, error)
	ListGenerationLogs(ctx context.Context, userID uint64) ([]*mongo.GenerationLog, error)
}

type GenerationServiceImpl struct {
	generator llm.Generator
	prompts   *llm.Prompts
	platforms *platform.Table
	logRepo   mongo.GenerationLogRepo
	pickTone  func() string
}

func NewGenerationService(generator llm.Generator, prompts *llm.Prompts, platforms *platform.Table, logRepo mongo.GenerationLogRepo) GenerationService {
	return &GenerationServiceImpl{
		generator: generator,
		prompts:   prompts,
		platforms: platforms,
		logRepo:   logRepo,
		pickTone: func() string {
			return Tones[rand.IntN(len(Tones))]
		},
	}
}

// GeneratePost 生成一条帖子文本并保证不超过平台长度上限，不落库
func (s *GenerationServiceImpl) GeneratePost(ctx context.Context, opts GenerateOptions) (string, error) {
	return s.generate(ctx, opts, mongo.GenerationKindPost)
}

func (s *GenerationServiceImpl) generate(ctx context.Context, opts GenerateOptions, kind string) (string, error) {
	capability, err := s.platforms.Lookup(opts.Platform)
	if err != nil {
		return "", ErrUnsupportedPlatform
	}

	tone := DefaultTone
	if opts.Tone != nil && *opts.Tone != "" {
		tone = *opts.Tone
	}
	includeHashtags := true
	if opts.IncludeHashtags != nil {
		includeHashtags = *opts.IncludeHashtags
	}
	includeURL := true
	if opts.IncludeURL != nil {
		includeURL = *opts.IncludeURL
	}

	messages, err := s.prompts.RenderPost(llm.PostPromptData{
		Platform:        strings.ToLower(string(opts.Platform)),
		Title:           opts.Title,
		Body:            util.TruncateRunes(opts.Body, promptBodyLimit),
		URL:             opts.URL,
		Tone:            tone,
		Style:           capability.Style,
		MaxLength:       capability.MaxLength,
		IncludeHashtags: includeHashtags,
		IncludeURL:      includeURL,
	})
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := s.generator.Generate(ctx, llm.Request{
		Messages:    messages,
		MaxTokens:   postMaxTokens,
		Temperature: postTemperature,
	})
	entry := &mongo.GenerationLog{
		UserID:    opts.UserID,
		Kind:      kind,
		Platform:  string(opts.Platform),
		Tone:      tone,
		Title:     opts.Title,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Error = err.Error()
		s.saveLog(ctx, entry)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	text = platform.EnforceLimit(text, capability.MaxLength)
	entry.Success = true
	entry.Output = text
	s.saveLog(ctx, entry)
	return text, nil
}

// GenerateMultiplePosts 并发生成 count 条，每条随机语气，失败的直接丢弃
func (s *GenerationServiceImpl) GenerateMultiplePosts(ctx context.Context, opts GenerateOptions, count int) []string {
	if count <= 0 {
		return []string{}
	}

	results := make([]string, count)
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		variantOpts := opts
		tone := s.pickTone()
		variantOpts.Tone = &tone

		g.Go(func() error {
			text, err := s.generate(gCtx, variantOpts, mongo.GenerationKindVariant)
			if err != nil {
				log.WarnContext(gCtx, "generate variant failed", "tone", tone, "err", err)
				return nil
			}
			results[i] = text
			return nil
		})
	}
	_ = g.Wait()

	variants := make([]string, 0, count)
	for _, text := range results {
		if text != "" {
			variants = append(variants, text)
		}
	}
	return variants
}

// SummarizeContent 生成 2-3 句摘要
func (s *GenerationServiceImpl) SummarizeContent(ctx context.Context, userID uint64, title, body string) (string, error) {
	messages, err := s.prompts.RenderSummary(title, body)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := s.generator.Generate(ctx, llm.Request{
		Messages:    messages,
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	entry := &mongo.GenerationLog{
		UserID:    userID,
		Kind:      mongo.GenerationKindSummary,
		Title:     title,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Error = err.Error()
		s.saveLog(ctx, entry)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	entry.Success = true
	entry.Output = text
	s.saveLog(ctx, entry)
	return text, nil
}

func (s *GenerationServiceImpl) ListGenerationLogs(ctx context.Context, userID uint64) ([]*mongo.GenerationLog, error) {
	return s.logRepo.ListByUser(ctx, userID, generationLogsLimit)
}

// saveLog 审计日志写失败不影响生成结果
func (s *GenerationServiceImpl) saveLog(ctx context.Context, entry *mongo.GenerationLog) {
	if err := s.logRepo.SaveLog(context.WithoutCancel(ctx), entry); err != nil {
		log.WarnContext(ctx, "save generation log failed", "kind", entry.Kind, "err", err)
	}
}
