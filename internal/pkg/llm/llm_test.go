package llm

import (
	"Autopost/internal/api/config"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	mu       sync.Mutex
	reply    string
	err      error
	delay    time.Duration
	inflight int32
	peak     int32
	lastOpts llms.CallOptions
	lastMsgs []llms.MessageContent
}

func (m *fakeModel) GenerateContent(ctx context.Context, msgs []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	n := atomic.AddInt32(&m.inflight, 1)
	defer atomic.AddInt32(&m.inflight, -1)
	for {
		p := atomic.LoadInt32(&m.peak)
		if n <= p || atomic.CompareAndSwapInt32(&m.peak, p, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	opts := llms.CallOptions{}
	for _, o := range options {
		o(&opts)
	}
	m.mu.Lock()
	m.lastOpts = opts
	m.lastMsgs = msgs
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func testMessages() []llms.MessageContent {
	return []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, "sys"),
		llms.TextParts(llms.ChatMessageTypeHuman, "p"),
	}
}

func TestGenerator_PassesOptions(t *testing.T) {
	m := &fakeModel{reply: "  hello  "}
	g := NewGenerator(m, "gpt-test", 2)

	out, err := g.Generate(context.Background(), Request{Messages: testMessages(), MaxTokens: 200, Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 200, m.lastOpts.MaxTokens)
	assert.InDelta(t, 0.7, m.lastOpts.Temperature, 1e-9)
	assert.Equal(t, "gpt-test", m.lastOpts.Model)
	require.Len(t, m.lastMsgs, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, m.lastMsgs[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, m.lastMsgs[1].Role)
}

func TestGenerator_Errors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewGenerator(&fakeModel{err: boom}, "", 1).Generate(context.Background(), Request{Messages: testMessages()})
	assert.ErrorIs(t, err, boom)

	_, err = NewGenerator(&fakeModel{reply: "   "}, "", 1).Generate(context.Background(), Request{Messages: testMessages()})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	m := &fakeModel{reply: "ok"}
	_, err = NewGenerator(m, "", 1).Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Nil(t, m.lastMsgs)
}

func TestGenerator_BoundsConcurrency(t *testing.T) {
	m := &fakeModel{reply: "ok", delay: 20 * time.Millisecond}
	g := NewGenerator(m, "", 2)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = g.Generate(context.Background(), Request{Messages: testMessages()})
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&m.peak), int32(2))
}

func promptsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "prompts")
}

func TestLoadPrompts_RenderPost(t *testing.T) {
	dir := promptsDir(t)
	p, err := LoadPrompts(config.PromptPathConfig{
		System:          filepath.Join(dir, "system.txt"),
		Post:            filepath.Join(dir, "generate-post.txt"),
		Summarize:       filepath.Join(dir, "summarize.txt"),
		SummarizeSystem: filepath.Join(dir, "summarize-system.txt"),
	})
	require.NoError(t, err)
	msgs, err := p.RenderPost(PostPromptData{
		Platform:        "TWITTER",
		Title:           "Go 1.24",
		Body:            "release notes",
		URL:             "https://go.dev",
		Tone:            "casual",
		Style:           "Be punchy.",
		MaxLength:       280,
		IncludeHashtags: false,
		IncludeURL:      true,
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, msgs[0].Role)
	assert.Contains(t, MessageText(msgs, llms.ChatMessageTypeSystem), "social media expert")
	out := MessageText(msgs, llms.ChatMessageTypeHuman)
	assert.Contains(t, out, "280")
	assert.Contains(t, out, "casual")
	assert.Contains(t, out, "Be punchy.")
	assert.Contains(t, out, "Do not include hashtags")
	assert.Contains(t, out, "https://go.dev")

	sum, err := p.RenderSummary("t", "b")
	require.NoError(t, err)
	assert.NotEmpty(t, MessageText(sum, llms.ChatMessageTypeSystem))
	assert.Contains(t, MessageText(sum, llms.ChatMessageTypeHuman), "Title: t")
}

func TestParsePrompts_Conditionals(t *testing.T) {
	p, err := ParsePrompts("sys", "{{.Title}}{{if .IncludeHashtags}} #tags{{end}}{{if .IncludeURL}} {{.URL}}{{end}}", "s", "{{.Title}}")
	require.NoError(t, err)

	msgs, err := p.RenderPost(PostPromptData{Title: "hi", URL: "https://go.dev", IncludeHashtags: true})
	require.NoError(t, err)
	assert.Equal(t, "sys", MessageText(msgs, llms.ChatMessageTypeSystem))
	assert.Equal(t, "hi #tags", MessageText(msgs, llms.ChatMessageTypeHuman))

	msgs, err = p.RenderPost(PostPromptData{Title: "hi", URL: "https://go.dev", IncludeURL: true})
	require.NoError(t, err)
	assert.Equal(t, "hi https://go.dev", MessageText(msgs, llms.ChatMessageTypeHuman))
}

func TestParsePrompts_RejectsBrokenTemplate(t *testing.T) {
	_, err := ParsePrompts("sys", "{{if .Title}}unclosed", "s", "{{.Title}}")
	assert.Error(t, err)

	_, err = ParsePrompts("sys", "{{.Unknown}}", "s", "{{.Title}}")
	assert.Error(t, err)
}

func TestLoadPrompts_MissingFile(t *testing.T) {
	_, err := LoadPrompts(config.PromptPathConfig{System: "/nonexistent"})
	assert.Error(t, err)
}
