package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeURL trims u, lowercases its host and drops a trailing slash.
// Anything that is not an absolute http(s) URL is returned unchanged so the
// validator can reject it.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return u
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	return parsed.String()
}
