package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
)

// DefaultProxyURL is a public pass-through proxy, {url} is replaced with the escaped feed url
const DefaultProxyURL = "https://api.allorigins.win/raw?url={url}"

const defaultMaxBodySize = 10 * 1024 * 1024

var errNotFeed = errors.New("response is not RSS/XML, likely blocked by source")

// FetchError is returned when both direct and proxied attempts failed
type FetchError struct {
	URL    string
	Direct error
	Proxy  error
}

func (e *FetchError) Error() string {
	if e.Proxy == nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Direct)
	}
	return fmt.Sprintf("fetch %s: direct: %v; proxy: %v", e.URL, e.Direct, e.Proxy)
}

func (e *FetchError) Unwrap() []error {
	return []error{e.Direct, e.Proxy}
}

// FetcherParams defines fetcher settings, zero values replaced by defaults
type FetcherParams struct {
	Timeout      time.Duration // direct attempt timeout, 15s by default
	ProxyTimeout time.Duration // proxy attempt timeout, 20s by default
	ProxyURL     string        // proxy template with {url} placeholder, "-" disables the fallback
	UserAgent    string
	MaxBodySize  int64
}

// Fetcher retrieves raw feed bytes, first directly and then through a pass-through proxy
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	proxyTimeout time.Duration
	proxyURL     string
	userAgent    string
	maxBodySize  int64
}

// NewFetcher creates a new feed fetcher
func NewFetcher(params FetcherParams) *Fetcher {
	if params.Timeout == 0 {
		params.Timeout = 15 * time.Second
	}
	if params.ProxyTimeout == 0 {
		params.ProxyTimeout = 20 * time.Second
	}
	if params.ProxyURL == "" {
		params.ProxyURL = DefaultProxyURL
	}
	if params.UserAgent == "" {
		params.UserAgent = DefaultUserAgent
	}
	if params.MaxBodySize == 0 {
		params.MaxBodySize = defaultMaxBodySize
	}

	return &Fetcher{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:      params.Timeout,
		proxyTimeout: params.ProxyTimeout,
		proxyURL:     params.ProxyURL,
		userAgent:    params.UserAgent,
		maxBodySize:  params.MaxBodySize,
	}
}

// Fetch returns raw feed content. A failed or non-XML direct response falls back to the proxy.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	data, directErr := f.get(ctx, feedURL, f.timeout, true)
	if directErr == nil {
		return data, nil
	}

	if f.proxyURL == "-" {
		return nil, &FetchError{URL: feedURL, Direct: directErr}
	}

	lgr.Printf("[WARN] direct fetch failed for %s, trying proxy: %v", feedURL, directErr)
	data, proxyErr := f.get(ctx, f.proxied(feedURL), f.proxyTimeout, false)
	if proxyErr != nil {
		return nil, &FetchError{URL: feedURL, Direct: directErr, Proxy: proxyErr}
	}

	lgr.Printf("[INFO] fetched %s via proxy", feedURL)
	return data, nil
}

// proxied builds the proxy url for the feed
func (f *Fetcher) proxied(feedURL string) string {
	return strings.ReplaceAll(f.proxyURL, "{url}", url.QueryEscape(feedURL))
}

// get makes a single GET request with its own timeout and checks the response looks like a feed
func (f *Fetcher) get(ctx context.Context, reqURL string, timeout time.Duration, browser bool) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if browser {
		addBrowserHeaders(req, f.userAgent)
	} else {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > f.maxBodySize {
		return nil, fmt.Errorf("response exceeds %d bytes", f.maxBodySize)
	}

	if !looksLikeFeed(data) {
		return nil, errNotFeed
	}
	return data, nil
}

// looksLikeFeed checks for RSS or XML markers
func looksLikeFeed(data []byte) bool {
	return bytes.Contains(data, []byte("<rss")) || bytes.Contains(data, []byte("<?xml"))
}
