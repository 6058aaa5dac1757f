// Package robots は、robots.txt に基づいてURLの取得可否を判定します。
package robots

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-generic-scraper/pkg/retry"
)

const (
	// DefaultTimeout は robots.txt 取得のタイムアウトです。
	DefaultTimeout = 10 * time.Second
	// maxRobotsSize は robots.txt として読み込む最大バイト数です。
	maxRobotsSize = int64(512 * 1024)
)

// ErrDisallowed は robots.txt によりアクセスが制限されていることを示します。
var ErrDisallowed = errors.New("robots.txtによりアクセスが制限されています")

// serverError は 5xx 応答を表し、リトライ対象です。
type serverError struct {
	statusCode int
}

func (e *serverError) Error() string {
	return fmt.Sprintf("robots.txt取得時のサーバーエラー: ステータスコード %d", e.statusCode)
}

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Waiter はホストへのリクエスト前に待機します。*pipeline.DomainLimiter が満たします。
type Waiter interface {
	Wait(ctx context.Context, domain string) error
}

// Checker はホストごとに robots.txt を取得・キャッシュし、取得可否を判定します。
// 複数のゴルーチンから同時に使用できます。
type Checker struct {
	client      Doer
	userAgent   string
	retryConfig retry.Config
	logger      *zerolog.Logger
	waiter      Waiter

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData
}

// Option は Checker の設定を行うための関数型です。
type Option func(*Checker)

// WithHTTPClient はカスタムのDoerを設定します。
func WithHTTPClient(doer Doer) Option {
	return func(c *Checker) {
		c.client = doer
	}
}

// WithRetryConfig はリトライ設定を差し替えます。
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Checker) {
		c.retryConfig = cfg
	}
}

// WithWaiter は robots.txt の取得前にホスト単位で待機させます。
// ページ取得と同じリミッターを渡すと、robots.txt とページのリクエストの間にも間隔が空きます。
func WithWaiter(w Waiter) Option {
	return func(c *Checker) {
		c.waiter = w
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker は userAgent で判定する Checker を生成します。
func NewChecker(userAgent string, opts ...Option) *Checker {
	nop := zerolog.Nop()
	c := &Checker{
		client:      &http.Client{Timeout: DefaultTimeout},
		userAgent:   userAgent,
		retryConfig: retry.DefaultConfig(),
		logger:      &nop,
		cache:       make(map[string]*robotstxt.RobotsData),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Allowed は rawURL へのアクセスが許可されているかを返します。
// robots.txt が取得できない場合は許可とみなします。ctx がキャンセルされた場合はエラーを返します。
func (c *Checker) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLのパースエラー: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return false, fmt.Errorf("絶対URLではありません: %s", rawURL)
	}

	data, err := c.robotsFor(ctx, u)
	if err != nil {
		return false, err
	}
	allowed := data.TestAgent(u.RequestURI(), c.userAgent)
	if !allowed {
		c.logger.Warn().Str("url", rawURL).Msg("robots.txtによりアクセスが制限されています")
	}
	return allowed, nil
}

// Check は Allowed の結果が不許可の場合に ErrDisallowed を返します。
func (c *Checker) Check(ctx context.Context, rawURL string) error {
	allowed, err := c.Allowed(ctx, rawURL)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}
	return nil
}

// robotsFor はホストの robots.txt を返します。同じホストへの同時の初回問い合わせは1回の取得にまとめます。
func (c *Checker) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	host := strings.ToLower(u.Host)
	key := u.Scheme + "://" + host

	if data, ok := c.cached(key); ok {
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if data, ok := c.cached(key); ok {
			return data, nil
		}

		if c.waiter != nil {
			if err := c.waiter.Wait(ctx, host); err != nil {
				return nil, fmt.Errorf("リクエスト間隔の待機中に中断されました: %w", err)
			}
		}

		data, err := c.fetch(ctx, key+"/robots.txt")
		if err != nil {
			// キャンセルによる失敗はキャッシュせず、次回あらためて取得する
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("robots.txtの確認が中断されました: %w", ctxErr)
			}
			c.logger.Warn().Err(err).Str("host", u.Host).Msg("robots.txtの確認中にエラーが発生しました。アクセスを許可します")
			data = allowAll()
		}

		c.mu.Lock()
		c.cache[key] = data
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*robotstxt.RobotsData), nil
}

func (c *Checker) cached(key string) (*robotstxt.RobotsData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.cache[key]
	return data, ok
}

func (c *Checker) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	var data *robotstxt.RobotsData

	op := func() error {
		var fetchErr error
		data, fetchErr = c.doFetch(ctx, robotsURL)
		return fetchErr
	}

	err := retry.Do(ctx, c.retryConfig, fmt.Sprintf("robots.txt(%s)の取得", robotsURL), op, isRetryable)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Checker) doFetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました (ネットワーク/接続エラー): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &serverError{statusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}

	// 4xx はすべて「制限なし」として扱われる
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("robots.txtの解析に失敗しました: %w", err)
	}
	return data, nil
}

// isRetryable は 5xx とネットワークエラーをリトライ対象とします。
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *serverError
	if errors.As(err, &se) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func allowAll() *robotstxt.RobotsData {
	data, _ := robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
	return data
}
