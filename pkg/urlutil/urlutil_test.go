package urlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	const base = "https://ex.com/dir/page"

	tests := []struct {
		name      string
		base      string
		candidate string
		expected  string
		ok        bool
	}{
		{"空のcandidate", base, "", "", false},
		{"https はそのまま", base, "https://other.com/a", "https://other.com/a", true},
		{"http はそのまま", base, "http://other.com/a?b=c", "http://other.com/a?b=c", true},
		{"ルート相対", base, "/a.png", "https://ex.com/a.png", true},
		{"パス相対", base, "next", "https://ex.com/dir/next", true},
		{"親ディレクトリ", "https://ex.com/a/b/c", "../b", "https://ex.com/a/b", true},
		{"クエリのみ", base, "?q=1", "https://ex.com/dir/page?q=1", true},
		{"スキーム相対", base, "//cdn.ex.com/x.png", "https://cdn.ex.com/x.png", true},
		{"不正なエスケープ", base, "%zz", "", false},
		{"不正なベース", "::bad", "/a", "", false},
		{"相対ベース", "page.html", "/a", "", false},
		{"data スキーム", base, "data:image/png;base64,AAAA", "", false},
		{"ftp スキーム", base, "ftp://ex.com/file", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.base, tt.candidate)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
			if ok {
				assert.True(t, strings.HasPrefix(got, "http://") || strings.HasPrefix(got, "https://"))
			}
		})
	}
}

func TestIsSkippableHref(t *testing.T) {
	tests := []struct {
		href     string
		expected bool
	}{
		{"#top", true},
		{"javascript:void(0)", true},
		{"mailto:info@example.com", true},
		{"/about", false},
		{"https://example.com/#section", false},
		{"tel:0120000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSkippableHref(tt.href))
		})
	}
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "www.example.com", Domain("https://WWW.Example.com/path"))
	assert.Equal(t, "example.com:8080", Domain("http://example.com:8080/"))
	assert.Equal(t, "", Domain("%zz"))
}
