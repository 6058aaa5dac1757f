package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-generic-scraper/internal/pipeline"
)

var rawURL string

// readURLFromStdin は標準入力から1行だけURLを読み込みます。
func readURLFromStdin() (string, error) {
	logger.Info().Msg("URLが指定されていないため、標準入力からURLを読み込みます...")
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stderr, "処理するURLを入力してください: ")

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("標準入力の読み取りエラー: %w", err)
		}
		return "", fmt.Errorf("URLが入力されていません")
	}
	return scanner.Text(), nil
}

var extractCmd = &cobra.Command{
	Use:   "extract [URL]",
	Short: "指定されたURLからタイトル、説明、本文、画像、リンクを抽出します",
	Long:  `指定されたURL（引数、--url、または標準入力）のページを取得し、抽出結果をJSONで表示して保存します。`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 処理対象URLの決定 (引数 → フラグ → 標準入力)
		urlToProcess := rawURL
		if len(args) == 1 {
			urlToProcess = args[0]
		}
		if urlToProcess == "" {
			var err error
			if urlToProcess, err = readURLFromStdin(); err != nil {
				return err
			}
		}

		processedURL, err := ensureScheme(urlToProcess)
		if err != nil {
			return fmt.Errorf("URLスキームの処理エラー: %w", err)
		}

		// 2. 依存性の初期化
		p, err := newPipeline()
		if err != nil {
			return err
		}

		timeout := overallTimeout(1)
		logger.Info().Str("url", processedURL).Dur("timeout", timeout).Msg("スクレイピングを開始しました")

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		// 3. メインロジックの実行
		res := p.Run(ctx, processedURL)
		if errors.Is(res.Error, pipeline.ErrNoMatch) {
			logger.Warn().Str("keyword", Flags.Keyword).Msg("キーワードを含むコンテンツは見つかりませんでした")
			return nil
		}
		if res.Error != nil {
			return fmt.Errorf("スクレイピングに失敗しました: %w", res.Error)
		}

		// 4. 結果の出力と保存
		if err := printRecord(cmd.OutOrStdout(), res.Record); err != nil {
			return fmt.Errorf("抽出結果の出力に失敗しました: %w", err)
		}
		if err := saveResult(res); err != nil {
			return err
		}

		logger.Info().Msg("スクレイピングが正常に完了しました。")
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&rawURL, "url", "u", "", "抽出対象のURL")
}
