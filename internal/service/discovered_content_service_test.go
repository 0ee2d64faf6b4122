package service

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/model"
	"Autopost/internal/pkg/es"
	"Autopost/internal/pkg/llm"
	"Autopost/internal/pkg/platform"
	"Autopost/internal/pkg/util"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentFixture(t *testing.T) (DiscoveredContentService, *fakeContentRepo, *fakeContentES, *fakeGenerator) {
	contents := newFakeContentRepo()
	index := &fakeContentES{}
	generator := &fakeGenerator{reply: func(llm.Request) (string, error) { return "summary", nil }}
	generation := NewGenerationService(generator, newTestPrompts(t), platform.NewTable(nil), &fakeLogRepo{})
	return NewDiscoveredContentService(contents, index, generation), contents, index, generator
}

func TestSearchContent_UsesESOrder(t *testing.T) {
	svc, contents, index, _ := newContentFixture(t)
	a := contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 1, Title: "golang generics", URL: "https://a"})
	b := contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 1, Title: "rust traits", URL: "https://b"})
	c := contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 1, Title: "golang modules", URL: "https://c"})
	index.searchIDs = []uint64{c.ID, 999, a.ID}
	index.total = 3

	page, err := svc.SearchContent(context.Background(), 1, &dto.SearchContentQuery{Keyword: " golang "})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, c.ID, page.Data[0].ID)
	assert.Equal(t, a.ID, page.Data[1].ID)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.NotEqual(t, b.ID, page.Data[0].ID)
}

func TestSearchContent_FallsBackToDB(t *testing.T) {
	for _, searchErr := range []error{es.ErrDisabled, errors.New("cluster red")} {
		svc, contents, index, _ := newContentFixture(t)
		contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 1, Title: "golang generics", URL: "https://a"})
		contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 1, Title: "rust traits", URL: "https://b"})
		contents.add(&model.DiscoveredContent{UserID: 2, ContentSourceID: 2, Title: "golang elsewhere", URL: "https://c"})
		index.searchErr = searchErr

		page, err := svc.SearchContent(context.Background(), 1, &dto.SearchContentQuery{Keyword: "golang"})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "golang generics", page.Data[0].Title)
	}
}

func TestSearchContent_EmptyKeyword(t *testing.T) {
	svc, _, _, _ := newContentFixture(t)
	_, err := svc.SearchContent(context.Background(), 1, &dto.SearchContentQuery{Keyword: "   "})
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestListContent_Filters(t *testing.T) {
	svc, contents, _, _ := newContentFixture(t)
	contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 1, Title: "a", URL: "https://a", IsProcessed: true})
	contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 1, Title: "b", URL: "https://b"})
	contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 2, Title: "c", URL: "https://c"})

	page, err := svc.ListContent(context.Background(), 1, &dto.DiscoveredContentQuery{
		IsProcessed: util.Ptr(false),
		SourceID:    util.Ptr(uint64(1)),
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "b", page.Data[0].Title)

	paged, err := svc.ListContent(context.Background(), 1, &dto.DiscoveredContentQuery{PageQuery: dto.PageQuery{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, paged.Data, 1)
	assert.Equal(t, int64(2), paged.Pagination.Pages)
}

func TestUpdateProcessedAndDelete(t *testing.T) {
	svc, contents, index, _ := newContentFixture(t)
	ctx := context.Background()
	free := contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 1, Title: "a", URL: "https://a"})
	used := contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 1, Title: "b", URL: "https://b"})
	contents.referenced[used.ID] = true

	updated, err := svc.UpdateProcessed(ctx, 1, free.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsProcessed)

	_, err = svc.UpdateProcessed(ctx, 2, free.ID, true)
	assert.ErrorIs(t, err, ErrContentNotFound)

	assert.ErrorIs(t, svc.DeleteContent(ctx, 1, used.ID), ErrContentReferenced)
	assert.NoError(t, svc.DeleteContent(ctx, 1, free.ID))
	assert.ErrorIs(t, svc.DeleteContent(ctx, 1, free.ID), ErrContentNotFound)
	assert.Equal(t, []uint64{free.ID}, index.deleted)
}

func TestSummarizeDiscoveredContent(t *testing.T) {
	svc, contents, _, generator := newContentFixture(t)
	item := contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: 1, Title: "Title", URL: "https://a", Content: util.Ptr("Body")})

	summary, err := svc.SummarizeContent(context.Background(), 1, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "summary", summary)
	assert.Equal(t, "Title:Body", promptOf(generator.lastRequest()))

	_, err = svc.SummarizeContent(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrContentNotFound)
}
