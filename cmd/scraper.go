package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/go-generic-scraper/internal/pipeline"
	"github.com/shouni/go-generic-scraper/pkg/scraper"
	"github.com/shouni/go-generic-scraper/pkg/types"
)

var (
	inputURLs   string // --urls フラグで受け取るカンマ区切りのURLリスト
	concurrency int    // --concurrency フラグで受け取る並列実行数
)

// runScrapePipeline は、並列スクレイピングを実行し、結果を出力・保存します。
func runScrapePipeline(ctx context.Context, out io.Writer, urls []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	workers := concurrency
	if workers <= 0 {
		workers = scraper.DefaultMaxConcurrency
	}
	s := scraper.NewParallelScraper(p, workers, &logger)

	// 同時実行数で割った件数ぶんを全体タイムアウトとして見込む
	rounds := (len(urls) + workers - 1) / workers
	timeout := overallTimeout(rounds)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Info().
		Int("urls", len(urls)).
		Int("concurrency", workers).
		Dur("timeout", timeout).
		Msg("並列スクレイピング開始")

	results := s.ScrapeInParallel(ctx, urls)
	printResults(out, results)

	var saveErrs []error
	for _, res := range results {
		if err := saveResult(res); err != nil {
			saveErrs = append(saveErrs, err)
		}
	}
	return errors.Join(saveErrs...)
}

func printResults(out io.Writer, results []types.URLResult) {
	fmt.Fprintln(out, "--- 並列スクレイピング結果 ---")
	for i, res := range results {
		switch {
		case errors.Is(res.Error, pipeline.ErrNoMatch):
			fmt.Fprintf(out, "➖ [%d] %s\n", i+1, res.URL)
			fmt.Fprintf(out, "     キーワード '%s' を含むコンテンツは見つかりませんでした\n", Flags.Keyword)
		case res.Error != nil:
			fmt.Fprintf(out, "❌ [%d] %s\n", i+1, res.URL)
			fmt.Fprintf(out, "     エラー: %v\n", res.Error)
		default:
			fmt.Fprintf(out, "✅ [%d] %s\n", i+1, res.URL)
			fmt.Fprintf(out, "     タイトル: %s\n", res.Record.Title)
			if res.MatchedField != "" {
				fmt.Fprintf(out, "     キーワード一致: %s\n", res.MatchedField)
			}
			fmt.Fprintf(out, "     本文の長さ: %d 文字, 画像: %d 枚, リンク: %d 個\n",
				len([]rune(res.Record.Content)), len(res.Record.Images), len(res.Record.Links))
			fmt.Fprintf(out, "     プレビュー: %s\n", preview(res.Record.Content))
		}
	}

	succeeded, skipped, failed := scraper.Summarize(results, pipeline.ErrNoMatch)
	fmt.Fprintln(out, "-------------------------------")
	fmt.Fprintf(out, "完了: 成功 %d 件, 不一致 %d 件, 失敗 %d 件\n", succeeded, skipped, failed)
}

// readURLs は --urls または標準入力からURLの一覧を読み込みます。
func readURLs(in io.Reader) ([]string, error) {
	if inputURLs != "" {
		return normalizeURLs(strings.Split(inputURLs, ","))
	}

	logger.Info().Msg("URLが指定されていないため、標準入力からURLを読み込みます (Ctrl+DまたはEOFで終了)...")
	var lines []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("標準入力の読み取りエラー: %w", err)
	}
	return normalizeURLs(lines)
}

var scraperCmd = &cobra.Command{
	Use:   "scraper",
	Short: "複数のURLを並列で処理し、コンテンツを抽出します",
	Long:  `--urls フラグでカンマ区切りのURLリストを受け取るか、標準入力からURLを一行ずつ読み込み、指定された最大同時実行数で並列抽出を実行します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("concurrency") {
			concurrency = cfg.Concurrency
		}
		urls, err := readURLs(os.Stdin)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			return fmt.Errorf("処理対象のURLが一つも指定されていません")
		}
		return runScrapePipeline(cmd.Context(), cmd.OutOrStdout(), urls)
	},
}

func init() {
	scraperCmd.Flags().StringVarP(&inputURLs, "urls", "u", "",
		"抽出対象のカンマ区切りURLリスト (例: url1,url2,url3)")
	scraperCmd.Flags().IntVarP(&concurrency, "concurrency", "c",
		scraper.DefaultMaxConcurrency,
		fmt.Sprintf("最大並列実行数 (デフォルト: %d)", scraper.DefaultMaxConcurrency))
}
