// Package transport は、ページ・フィード・robots.txt の取得で共有する HTTP クライアントを提供します。
package transport

import (
	"net/http"
	"time"
)

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースです。
// httpkit.Doer と robots.Doer のどちらとしても使えます。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// UserAgentDoer は、すべてのリクエストの User-Agent を指定した値に置き換えてから next に渡します。
// httpkit は独自の User-Agent を付けるため、設定値を送るにはこの層で上書きする必要があります。
type UserAgentDoer struct {
	next      Doer
	userAgent string
}

// NewUserAgentDoer は next をラップした UserAgentDoer を返します。
// next が nil の場合は timeout 付きの *http.Client を使います。
func NewUserAgentDoer(next Doer, userAgent string, timeout time.Duration) *UserAgentDoer {
	if next == nil {
		next = &http.Client{Timeout: timeout}
	}
	return &UserAgentDoer{next: next, userAgent: userAgent}
}

// Do は User-Agent を設定したリクエストのコピーを送信します。呼び出し元の req は変更しません。
func (d *UserAgentDoer) Do(req *http.Request) (*http.Response, error) {
	if d.userAgent == "" {
		return d.next.Do(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", d.userAgent)
	return d.next.Do(clone)
}
