package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shouni/go-generic-scraper/pkg/match"
	"github.com/shouni/go-generic-scraper/pkg/types"
	"github.com/shouni/go-generic-scraper/pkg/urlutil"
)

// ErrNoMatch は、キーワードがどのフィールドにも見つからなかったことを示します。
var ErrNoMatch = errors.New("キーワードを含むコンテンツは見つかりませんでした")

// RecordExtractor は URL から PageRecord を取得・抽出します。*extract.Extractor が満たします。
type RecordExtractor interface {
	FetchAndExtract(ctx context.Context, url string) (*types.PageRecord, error)
}

// RobotsChecker は URL が robots.txt で許可されているかを確認します。*robots.Checker が満たします。
type RobotsChecker interface {
	Check(ctx context.Context, url string) error
}

// Pipeline は1つのURLに対して robots.txt 確認 → 待機 → 取得・抽出 → キーワード判定 を行います。
type Pipeline struct {
	extractor RecordExtractor
	robots    RobotsChecker
	limiter   *DomainLimiter
	keyword   string
	logger    *zerolog.Logger
}

// Option は Pipeline の設定を行うための関数型です。
type Option func(*Pipeline)

// WithRobots は robots.txt の確認を有効にします。
func WithRobots(checker RobotsChecker) Option {
	return func(p *Pipeline) {
		p.robots = checker
	}
}

// WithDelay は同一ドメインへのリクエスト間隔を設定します。0以下なら待機しません。
func WithDelay(delay time.Duration) Option {
	return func(p *Pipeline) {
		if delay > 0 {
			p.limiter = NewDomainLimiter(delay)
		}
	}
}

// WithLimiter は既存の DomainLimiter を使います。
// robots.Checker と同じリミッターを共有すると、robots.txt の取得もリクエスト間隔の対象になります。
func WithLimiter(limiter *DomainLimiter) Option {
	return func(p *Pipeline) {
		if limiter != nil {
			p.limiter = limiter
		}
	}
}

// WithKeyword はキーワードによるフィルタを設定します。空文字ならフィルタしません。
func WithKeyword(keyword string) Option {
	return func(p *Pipeline) {
		p.keyword = keyword
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New は Pipeline を生成します。
func New(extractor RecordExtractor, opts ...Option) (*Pipeline, error) {
	if extractor == nil {
		return nil, fmt.Errorf("pipeline.New: extractor cannot be nil")
	}
	nop := zerolog.Nop()
	p := &Pipeline{extractor: extractor, logger: &nop}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run は rawURL を処理し、結果を URLResult として返します。
// キーワードに一致しない場合、Error は ErrNoMatch になります。
func (p *Pipeline) Run(ctx context.Context, rawURL string) types.URLResult {
	result := types.URLResult{URL: rawURL}

	record, err := p.fetch(ctx, rawURL)
	if err != nil {
		result.Error = err
		return result
	}

	filtered, m := match.Filter(record, p.keyword)
	if filtered == nil {
		p.logger.Info().Str("url", rawURL).Str("keyword", p.keyword).
			Msg("キーワードを含むコンテンツは見つかりませんでした")
		result.Error = fmt.Errorf("%w (URL: %s, キーワード: %s)", ErrNoMatch, rawURL, p.keyword)
		return result
	}
	if !m.Unfiltered() {
		p.logger.Info().Str("url", rawURL).Str("keyword", p.keyword).Stringer("match", m).
			Msg("キーワードを含むコンテンツが見つかりました")
	}

	result.Record = filtered
	result.MatchedField = string(m.Field)
	return result
}

func (p *Pipeline) fetch(ctx context.Context, rawURL string) (*types.PageRecord, error) {
	if p.robots != nil {
		if err := p.robots.Check(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, urlutil.Domain(rawURL)); err != nil {
			return nil, fmt.Errorf("リクエスト間隔の待機中に中断されました: %w", err)
		}
	}

	record, err := p.extractor.FetchAndExtract(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("コンテンツ抽出エラー (URL: %s): %w", rawURL, err)
	}
	return record, nil
}
