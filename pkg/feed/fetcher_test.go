package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Jobs</title>
<item><guid>job-1</guid><title>Go Developer</title><link>https://example.com/job-1</link></item>
</channel></rss>`

func TestFetcher_Fetch(t *testing.T) {
	t.Run("direct success", func(t *testing.T) {
		var gotHeaders http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeaders = r.Header.Clone()
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(testRSS))
		}))
		defer server.Close()

		fetcher := NewFetcher(FetcherParams{Timeout: time.Second, ProxyURL: "-"})
		data, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, testRSS, string(data))

		assert.Equal(t, DefaultUserAgent, gotHeaders.Get("User-Agent"))
		assert.Contains(t, gotHeaders.Get("Accept"), "application/rss+xml")
		assert.NotEmpty(t, gotHeaders.Get("Accept-Language"))
		assert.Empty(t, gotHeaders.Get("Referer"))
	})

	t.Run("blocked direct falls back to proxy", func(t *testing.T) {
		direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>Access denied</body></html>"))
		}))
		defer direct.Close()

		var proxiedURL string
		proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			proxiedURL = r.URL.Query().Get("url")
			_, _ = w.Write([]byte(testRSS))
		}))
		defer proxy.Close()

		fetcher := NewFetcher(FetcherParams{Timeout: time.Second, ProxyTimeout: time.Second,
			ProxyURL: proxy.URL + "/raw?url={url}"})
		data, err := fetcher.Fetch(context.Background(), direct.URL+"/feed?x=1")
		require.NoError(t, err)
		assert.Equal(t, testRSS, string(data))
		assert.Equal(t, direct.URL+"/feed?x=1", proxiedURL)
	})

	t.Run("direct server error falls back to proxy", func(t *testing.T) {
		direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer direct.Close()
		proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(testRSS))
		}))
		defer proxy.Close()

		fetcher := NewFetcher(FetcherParams{ProxyURL: proxy.URL + "/?u={url}"})
		data, err := fetcher.Fetch(context.Background(), direct.URL)
		require.NoError(t, err)
		assert.Equal(t, testRSS, string(data))
	})

	t.Run("proxy is not called when direct works", func(t *testing.T) {
		direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(testRSS))
		}))
		defer direct.Close()
		var proxyCalls int32
		proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&proxyCalls, 1)
		}))
		defer proxy.Close()

		fetcher := NewFetcher(FetcherParams{ProxyURL: proxy.URL + "/?u={url}"})
		_, err := fetcher.Fetch(context.Background(), direct.URL)
		require.NoError(t, err)
		assert.Zero(t, atomic.LoadInt32(&proxyCalls))
	})

	t.Run("both attempts fail", func(t *testing.T) {
		direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer direct.Close()
		proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("still blocked"))
		}))
		defer proxy.Close()

		fetcher := NewFetcher(FetcherParams{ProxyURL: proxy.URL + "/?u={url}"})
		data, err := fetcher.Fetch(context.Background(), direct.URL)
		require.Error(t, err)
		assert.Nil(t, data)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, direct.URL, fetchErr.URL)
		assert.Contains(t, fetchErr.Direct.Error(), "unexpected status code: 500")
		assert.ErrorIs(t, fetchErr.Proxy, errNotFeed)
	})

	t.Run("direct timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(testRSS))
		}))
		defer server.Close()

		fetcher := NewFetcher(FetcherParams{Timeout: 20 * time.Millisecond, ProxyURL: "-"})
		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "context deadline exceeded")
	})

	t.Run("body too large", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(testRSS))
		}))
		defer server.Close()

		fetcher := NewFetcher(FetcherParams{ProxyURL: "-", MaxBodySize: 10})
		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds 10 bytes")
	})

	t.Run("invalid url", func(t *testing.T) {
		fetcher := NewFetcher(FetcherParams{ProxyURL: "-"})
		_, err := fetcher.Fetch(context.Background(), "not-a-valid-url")
		require.Error(t, err)
	})
}

func TestRefererFor(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.higheredjobs.com/rss/articleFeed.cfm", "https://www.higheredjobs.com/"},
		{"https://higheredjobs.com/rss", "https://www.higheredjobs.com/"},
		{"https://jobicy.com/?feed=job_feed", ""},
		{"https://nothigheredjobs.com/rss", ""},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.url)
		require.NoError(t, err)
		assert.Equal(t, tt.want, refererFor(u), tt.url)
	}
}

func TestLooksLikeFeed(t *testing.T) {
	assert.True(t, looksLikeFeed([]byte(`<?xml version="1.0"?><feed/>`)))
	assert.True(t, looksLikeFeed([]byte(`<rss version="2.0"></rss>`)))
	assert.False(t, looksLikeFeed([]byte(`<html></html>`)))
	assert.False(t, looksLikeFeed(nil))
}
