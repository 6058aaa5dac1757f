package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-generic-scraper/pkg/feed"
	"github.com/shouni/go-generic-scraper/pkg/scraper"
)

var (
	feedURL   string
	feedLimit int
)

// fetchFeedLinks は、フィードを取得して記事URLの一覧を返します。
func fetchFeedLinks(ctx context.Context, parser *feed.Parser, url string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, overallTimeout(1))
	defer cancel()

	links, err := parser.FetchLinks(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得およびパースエラー (URL: %s): %w", url, err)
	}
	return links, nil
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "RSS/Atomフィードの記事をまとめてスクレイピングします",
	Long:  `指定されたURLからRSSまたはAtomフィードを取得し、含まれる記事URLを並列にスクレイピングします。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		processedURL, err := ensureScheme(feedURL)
		if err != nil {
			return fmt.Errorf("URLスキームの処理エラー: %w", err)
		}

		fetcher := GetGlobalFetcher()
		if fetcher == nil {
			return fmt.Errorf("HTTPクライアントの取得に失敗しました")
		}

		links, err := fetchFeedLinks(cmd.Context(), feed.NewParser(fetcher), processedURL)
		if err != nil {
			return err
		}
		if feedLimit > 0 && len(links) > feedLimit {
			links = links[:feedLimit]
		}
		logger.Info().Str("feed", processedURL).Int("items", len(links)).Msg("フィードを解析しました")
		if len(links) == 0 {
			return fmt.Errorf("フィードに記事URLが含まれていません: %s", processedURL)
		}

		if !cmd.Flags().Changed("concurrency") {
			concurrency = cfg.Concurrency
		}
		return runScrapePipeline(cmd.Context(), cmd.OutOrStdout(), links)
	},
}

func init() {
	feedCmd.Flags().StringVarP(&feedURL, "url", "u", "", "解析対象のフィード (RSS/Atom) URL")
	feedCmd.Flags().IntVarP(&feedLimit, "limit", "l", 0, "処理する記事数の上限 (0は無制限)")
	feedCmd.Flags().IntVarP(&concurrency, "concurrency", "c",
		scraper.DefaultMaxConcurrency,
		fmt.Sprintf("最大並列実行数 (デフォルト: %d)", scraper.DefaultMaxConcurrency))
	_ = feedCmd.MarkFlagRequired("url")
}
