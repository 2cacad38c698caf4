// internal/service/viral/canonical.go

package viral

import (
	"net/url"
	"sort"
	"strings"
)

// hostAliases collapses known mobile/www/shortlink host variants to one
// canonical host before comparison.
var hostAliases = map[string]string{
	"youtu.be":           "youtube.com",
	"www.youtube.com":    "youtube.com",
	"m.youtube.com":      "youtube.com",
	"old.reddit.com":     "reddit.com",
	"www.reddit.com":     "reddit.com",
	"mobile.twitter.com": "twitter.com",
	"www.twitter.com":    "twitter.com",
	"x.com":              "twitter.com",
}

// keptQueryParams are the only query parameters retained by Canonicalize.
// Everything else (tracking, session, referral) is dropped.
var keptQueryParams = map[string]bool{
	"v":  true,
	"id": true,
	"p":  true,
}

// Canonicalize maps a raw URL to the normalized key used to recognize the
// same underlying content across platforms. It is pure and never fails: an
// unparsable URL canonicalizes to an empty string, which callers must treat
// as "never matches".
//
// The matcher and the novelty tracker both rely on this function being their
// single source of truth for URL identity.
func Canonicalize(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := strings.ToLower(parsed.Host)
	if alias, ok := hostAliases[host]; ok {
		host = alias
	}
	host = strings.TrimPrefix(host, "www.")

	path := strings.ToLower(strings.TrimSuffix(parsed.Path, "/"))

	var kept []string
	for _, pair := range strings.Split(parsed.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key := strings.ToLower(strings.SplitN(pair, "=", 2)[0])
		if keptQueryParams[key] {
			kept = append(kept, pair)
		}
	}

	if len(kept) == 0 {
		return host + path
	}

	sort.Strings(kept)
	return host + path + "?" + strings.Join(kept, "&")
}
