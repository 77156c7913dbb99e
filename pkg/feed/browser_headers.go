package feed

import (
	"math/rand"
	"net/http"
	"net/url"
	"strings"
)

// DefaultUserAgent is a desktop Chrome user agent, some job boards reject anything else
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// acceptLanguages contains common browser Accept-Language values
var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.9,es;q=0.8",
	"en-US,en;q=0.9,fr;q=0.8",
	"en-US,en;q=0.9,de;q=0.8",
}

// referers maps a host suffix to the Referer expected by that source
var referers = map[string]string{
	"higheredjobs.com": "https://www.higheredjobs.com/",
}

// addBrowserHeaders adds browser-like headers for feed fetching
func addBrowserHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation
	req.Header.Set("Cache-Control", "no-cache")
	if ref := refererFor(req.URL); ref != "" {
		req.Header.Set("Referer", ref)
	}
}

// refererFor returns source-specific Referer for the url, empty if the source needs none
func refererFor(u *url.URL) string {
	if u == nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	for suffix, ref := range referers {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return ref
		}
	}
	return ""
}
