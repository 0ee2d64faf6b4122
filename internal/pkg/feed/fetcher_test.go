package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Sample</title>
  <link>https://example.com</link>
  <description>Sample feed</description>
  <item>
    <title>First post</title>
    <link>https://example.com/1</link>
    <description><![CDATA[<p>Hello <b>world</b> &amp; friends</p>]]></description>
    <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
  </item>
  <item>
    <title>No date</title>
    <link>https://example.com/2</link>
  </item>
  <item>
    <description>missing title and link</description>
  </item>
</channel>
</rss>`

func TestGofeedFetcher_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := NewGofeedFetcher(5*time.Second, "autopost-test")
	items, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "autopost-test", gotUA)

	assert.Equal(t, "First post", items[0].Title)
	assert.Equal(t, "https://example.com/1", items[0].Link)
	assert.Equal(t, "Hello world & friends", items[0].Snippet)
	require.NotNil(t, items[0].PublishedAt)
	assert.Equal(t, 2006, items[0].PublishedAt.Year())

	assert.Nil(t, items[1].PublishedAt)
	assert.Equal(t, "", items[1].Snippet)

	assert.Equal(t, "", items[2].Title)
	assert.Equal(t, "", items[2].Link)
}

func TestGofeedFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewGofeedFetcher(5*time.Second, "").Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestGofeedFetcher_NotAFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>nope</body></html>"))
	}))
	defer srv.Close()

	_, err := NewGofeedFetcher(5*time.Second, "").Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
