package service

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/model"
	"Autopost/internal/pkg/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentSourceService_CreateAndGet(t *testing.T) {
	contents := newFakeContentRepo()
	sources := newFakeSourceRepo(contents)
	svc := NewContentSourceService(sources, &fakeContentES{})
	ctx := context.Background()

	created, err := svc.CreateSource(ctx, 1, &dto.CreateContentSourceDTO{Name: "Blog", URL: "https://example.com/feed"})
	require.NoError(t, err)
	assert.Equal(t, "RSS", created.Type)
	assert.True(t, created.IsActive)
	assert.Nil(t, created.LastCrawled)

	contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: created.ID, Title: "a", URL: "https://example.com/a"})

	got, err := svc.GetSource(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ContentCount)

	_, err = svc.GetSource(ctx, 2, created.ID)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestContentSourceService_RejectsBadURL(t *testing.T) {
	svc := NewContentSourceService(newFakeSourceRepo(newFakeContentRepo()), &fakeContentES{})

	for _, url := range []string{"not a url", "ftp://example.com/feed", "https://"} {
		_, err := svc.CreateSource(context.Background(), 1, &dto.CreateContentSourceDTO{Name: "x", URL: url})
		assert.ErrorIs(t, err, ErrInvalidURL, url)
	}
}

func TestContentSourceService_Update(t *testing.T) {
	svc := NewContentSourceService(newFakeSourceRepo(newFakeContentRepo()), &fakeContentES{})
	ctx := context.Background()

	created, err := svc.CreateSource(ctx, 1, &dto.CreateContentSourceDTO{Name: "Blog", URL: "https://example.com/feed"})
	require.NoError(t, err)

	updated, err := svc.UpdateSource(ctx, 1, created.ID, &dto.UpdateContentSourceDTO{
		Name:     util.Ptr("News"),
		IsActive: util.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "News", updated.Name)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateSource(ctx, 1, created.ID, &dto.UpdateContentSourceDTO{URL: util.Ptr("bad")})
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = svc.UpdateSource(ctx, 2, created.ID, &dto.UpdateContentSourceDTO{Name: util.Ptr("x")})
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestContentSourceService_Delete(t *testing.T) {
	contents := newFakeContentRepo()
	sources := newFakeSourceRepo(contents)
	index := &fakeContentES{}
	svc := NewContentSourceService(sources, index)
	ctx := context.Background()

	free, _ := svc.CreateSource(ctx, 1, &dto.CreateContentSourceDTO{Name: "free", URL: "https://a.example.com/feed"})
	used, _ := svc.CreateSource(ctx, 1, &dto.CreateContentSourceDTO{Name: "used", URL: "https://b.example.com/feed"})

	c1 := contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: free.ID, Title: "a", URL: "https://a.example.com/1"})
	c2 := contents.add(&model.DiscoveredContent{UserID: 1, ContentSourceID: used.ID, Title: "b", URL: "https://b.example.com/1"})
	contents.referenced[c2.ID] = true

	require.NoError(t, svc.DeleteSource(ctx, 1, free.ID))
	assert.Equal(t, []uint64{c1.ID}, index.deleted)
	_, err := svc.GetSource(ctx, 1, free.ID)
	assert.ErrorIs(t, err, ErrSourceNotFound)

	assert.ErrorIs(t, svc.DeleteSource(ctx, 1, used.ID), ErrSourceReferenced)
	assert.ErrorIs(t, svc.DeleteSource(ctx, 1, 999), ErrSourceNotFound)
}
