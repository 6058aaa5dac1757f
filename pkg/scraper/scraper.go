package scraper

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-generic-scraper/pkg/types"
)

const (
	// DefaultMaxConcurrency は、並列スクレイピングのデフォルトの最大同時実行数を定義します。
	DefaultMaxConcurrency = 6
)

// Runner は1つのURLを処理する機能です。*pipeline.Pipeline が満たします。
type Runner interface {
	Run(ctx context.Context, url string) types.URLResult
}

// Scraper はWebコンテンツの抽出機能を提供するインターフェースです。
type Scraper interface {
	ScrapeInParallel(ctx context.Context, urls []string) []types.URLResult
}

// ParallelScraper は Scraper インターフェースを実装する並列処理構造体です。
type ParallelScraper struct {
	runner         Runner
	maxConcurrency int
	logger         *zerolog.Logger
}

// NewParallelScraper は ParallelScraper を初期化します。
// maxConcurrency が0以下の場合は DefaultMaxConcurrency を使用します。
func NewParallelScraper(runner Runner, maxConcurrency int, logger *zerolog.Logger) *ParallelScraper {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ParallelScraper{
		runner:         runner,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// ScrapeInParallel は urls を最大 maxConcurrency 件ずつ並列に処理します。
// 結果は urls と同じ順序で返します。個々のURLの失敗は URLResult.Error に格納され、他のURLの処理は継続します。
func (s *ParallelScraper) ScrapeInParallel(ctx context.Context, urls []string) []types.URLResult {
	results := make([]types.URLResult, len(urls))

	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrency)

	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			results[i] = types.URLResult{URL: u, Error: err}
			continue
		}
		g.Go(func() error {
			res := s.runner.Run(ctx, u)
			if res.Error != nil {
				s.logger.Debug().Err(res.Error).Str("url", u).Msg("URLの処理に失敗しました")
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Summarize は成功件数と失敗件数を数えます。errSkip に該当するエラーは skipped として数えます。
func Summarize(results []types.URLResult, errSkip error) (succeeded, skipped, failed int) {
	for _, res := range results {
		switch {
		case res.Error == nil:
			succeeded++
		case errSkip != nil && errors.Is(res.Error, errSkip):
			skipped++
		default:
			failed++
		}
	}
	return succeeded, skipped, failed
}
