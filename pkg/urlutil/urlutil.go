// Package urlutil は、ページ内で見つかった相対URLを絶対URLに解決します。
package urlutil

import (
	"net/url"
	"strings"
)

// skipHrefPrefixes は、リンクとして収集しない href の接頭辞です。
var skipHrefPrefixes = []string{"#", "javascript:", "mailto:"}

// Resolve は candidate を base に対して解決し、http/https の絶対URLを返します。
// candidate が空、もしくは解決できない場合は ok=false を返します。
// 既に http:// または https:// で始まる candidate はそのまま返します。
func Resolve(base, candidate string) (resolved string, ok bool) {
	if candidate == "" {
		return "", false
	}
	if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
		return candidate, true
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}

	abs := baseURL.ResolveReference(ref)
	if !IsHTTP(abs) {
		// data: や ftp: など、またはベース自体が相対の場合
		return "", false
	}
	return abs.String(), true
}

// IsHTTP は u が http/https のホスト付き絶対URLかどうかを判定します。
func IsHTTP(u *url.URL) bool {
	if u == nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// IsSkippableHref は、フラグメントのみ、javascript:、mailto: の href を判定します。
func IsSkippableHref(href string) bool {
	for _, prefix := range skipHrefPrefixes {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}

// Domain は URL のホスト部を返します。解析できない場合は空文字です。
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
