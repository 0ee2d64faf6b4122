package service

import (
	"Autopost/internal/model"
	"Autopost/internal/pkg/llm"
	"Autopost/internal/pkg/mongo"
	"Autopost/internal/pkg/platform"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerationFixture(t *testing.T, reply func(llm.Request) (string, error)) (*GenerationServiceImpl, *fakeGenerator, *fakeLogRepo) {
	generator := &fakeGenerator{reply: reply}
	logs := &fakeLogRepo{}
	svc := NewGenerationService(generator, newTestPrompts(t), platform.NewTable(nil), logs).(*GenerationServiceImpl)
	return svc, generator, logs
}

func TestGeneratePost_Defaults(t *testing.T) {
	svc, generator, logs := newGenerationFixture(t, func(llm.Request) (string, error) {
		return "Fresh take on Go 1.25 #golang", nil
	})

	text, err := svc.GeneratePost(context.Background(), GenerateOptions{
		UserID:   7,
		Platform: model.PlatformTwitter,
		Title:    "Go 1.25",
		Body:     "release notes",
		URL:      "https://go.dev/blog",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fresh take on Go 1.25 #golang", text)

	req := generator.lastRequest()
	assert.Equal(t, "system", systemOf(req))
	assert.Equal(t, "twitter|engaging|280|Go 1.25|release notes|true|true", promptOf(req))
	assert.Equal(t, 200, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)

	require.Len(t, logs.logs, 1)
	assert.Equal(t, uint64(7), logs.logs[0].UserID)
	assert.Equal(t, mongo.GenerationKindPost, logs.logs[0].Kind)
	assert.True(t, logs.logs[0].Success)
}

func TestGeneratePost_OptionsAndTruncation(t *testing.T) {
	svc, generator, _ := newGenerationFixture(t, func(llm.Request) (string, error) {
		return strings.Repeat("a", 300), nil
	})
	tone := "casual"
	no := false

	text, err := svc.GeneratePost(context.Background(), GenerateOptions{
		Platform:        model.PlatformTwitter,
		Title:           "t",
		Body:            strings.Repeat("b", 800),
		Tone:            &tone,
		IncludeHashtags: &no,
		IncludeURL:      &no,
	})
	require.NoError(t, err)
	assert.Len(t, []rune(text), 280)
	assert.True(t, strings.HasSuffix(text, "..."))

	prompt := promptOf(generator.lastRequest())
	assert.Equal(t, "twitter|casual|280|t|"+strings.Repeat("b", 500)+"|false|false", prompt)
}

func TestGeneratePost_LinkedInKeepsLongText(t *testing.T) {
	long := strings.Repeat("x", 1000)
	svc, _, _ := newGenerationFixture(t, func(llm.Request) (string, error) { return long, nil })

	text, err := svc.GeneratePost(context.Background(), GenerateOptions{Platform: model.PlatformLinkedIn, Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, long, text)
}

func TestGeneratePost_Failure(t *testing.T) {
	svc, _, logs := newGenerationFixture(t, func(llm.Request) (string, error) {
		return "", errors.New("rate limited")
	})

	_, err := svc.GeneratePost(context.Background(), GenerateOptions{Platform: model.PlatformTwitter, Title: "t"})
	assert.ErrorIs(t, err, ErrGenerationFailed)
	require.Len(t, logs.logs, 1)
	assert.False(t, logs.logs[0].Success)
	assert.Equal(t, "rate limited", logs.logs[0].Error)
}

func TestGeneratePost_UnknownPlatform(t *testing.T) {
	svc, generator, _ := newGenerationFixture(t, func(llm.Request) (string, error) { return "x", nil })

	_, err := svc.GeneratePost(context.Background(), GenerateOptions{Platform: "MYSPACE"})
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.Empty(t, generator.requests)
}

func TestGenerateMultiplePosts_DropsFailures(t *testing.T) {
	svc, _, logs := newGenerationFixture(t, func(req llm.Request) (string, error) {
		if strings.Contains(promptOf(req), "|casual|") {
			return "", errors.New("boom")
		}
		return "variant " + strings.Split(promptOf(req), "|")[1], nil
	})
	tones := []string{"professional", "casual", "informative"}
	next := 0
	svc.pickTone = func() string {
		tone := tones[next%len(tones)]
		next++
		return tone
	}

	variants := svc.GenerateMultiplePosts(context.Background(), GenerateOptions{Platform: model.PlatformFacebook, Title: "t"}, 3)
	assert.Equal(t, []string{"variant professional", "variant informative"}, variants)
	assert.Len(t, logs.logs, 3)
	for _, entry := range logs.logs {
		assert.Equal(t, mongo.GenerationKindVariant, entry.Kind)
	}
}

func TestGenerateMultiplePosts_ZeroCount(t *testing.T) {
	svc, generator, _ := newGenerationFixture(t, func(llm.Request) (string, error) { return "x", nil })

	assert.Empty(t, svc.GenerateMultiplePosts(context.Background(), GenerateOptions{Platform: model.PlatformTwitter}, 0))
	assert.Empty(t, generator.requests)
}

func TestSummarizeContent(t *testing.T) {
	svc, generator, logs := newGenerationFixture(t, func(llm.Request) (string, error) {
		return "A short summary.", nil
	})

	summary, err := svc.SummarizeContent(context.Background(), 3, "Title", "Body")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)

	req := generator.lastRequest()
	assert.Equal(t, "summary-system", systemOf(req))
	assert.Equal(t, "Title:Body", promptOf(req))
	assert.Equal(t, 150, req.MaxTokens)
	assert.InDelta(t, 0.3, req.Temperature, 1e-9)

	entries, err := svc.ListGenerationLogs(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, mongo.GenerationKindSummary, entries[0].Kind)
	assert.Len(t, logs.logs, 1)
}
