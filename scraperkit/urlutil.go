package scraperkit

import (
	"net/url"
	"strings"
)

// trackingParams are stripped during normalization so the same article is
// not stored once per campaign link.
var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"fbclid", "gclid",
}

// Absolutize resolves href against base and reports whether the result is
// a usable http(s) URL.
func Absolutize(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := baseURL.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}

// NormalizeURL canonicalizes an article URL: lowercases the host, strips
// fragments, tracking parameters and any trailing slash. Unparsable input
// comes back unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for _, p := range trackingParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()

	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// SameDomain reports whether two URLs share a host, treating a leading
// www. as insignificant.
func SameDomain(a, b string) bool {
	return hostOf(a) != "" && hostOf(a) == hostOf(b)
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
