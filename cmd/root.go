package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	clibase "github.com/shouni/go-cli-base"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/spf13/cobra"

	"github.com/shouni/go-generic-scraper/internal/config"
	"github.com/shouni/go-generic-scraper/internal/pipeline"
	"github.com/shouni/go-generic-scraper/internal/transport"
	"github.com/shouni/go-generic-scraper/pkg/extract"
	"github.com/shouni/go-generic-scraper/pkg/robots"
)

// --- グローバル定数 ---

const (
	appName = "generic-scraper"

	// 全体処理のタイムアウトはクライアントタイムアウトの倍数で決める
	overallTimeoutFactor  = 2
	DefaultOverallTimeout = 20 * time.Second
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	TimeoutSec    int           // --timeout タイムアウト
	MaxRetries    int           // --max-retries リトライ回数
	MinTextLength int           // --min-text-length 本文とみなす最小文字数
	Delay         time.Duration // --delay 同一ドメインへのリクエスト間隔
	UserAgent     string        // --user-agent robots.txt の判定に使うUser-Agent
	OutputDir     string        // --output-dir 保存先ディレクトリ
	Keyword       string        // --keyword フィルタリングするキーワード
	NoRobots      bool          // --no-robots robots.txtチェックを無効にする
	NoSave        bool          // --no-save ファイルに保存しない
}

var (
	Flags         AppFlags
	cfg           *config.Config
	logger        = zerolog.Nop()
	globalFetcher extract.Fetcher
	globalDoer    *transport.UserAgentDoer
)

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
// デフォルト値は環境変数 (internal/config) から読み込んだ値です。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&Flags.TimeoutSec, "timeout", int(cfg.Timeout/time.Second), "HTTPリクエストのタイムアウト時間（秒）")
	pf.IntVar(&Flags.MaxRetries, "max-retries", int(cfg.MaxRetries), "HTTPリクエストのリトライ最大回数")
	pf.IntVarP(&Flags.MinTextLength, "min-text-length", "m", cfg.MinTextLength, "本文として扱う最小テキスト長")
	pf.DurationVarP(&Flags.Delay, "delay", "d", cfg.Delay, "同一ドメインへのリクエスト間の待機時間")
	pf.StringVar(&Flags.UserAgent, "user-agent", cfg.UserAgent, "robots.txtの判定に使うユーザーエージェント")
	pf.StringVarP(&Flags.OutputDir, "output-dir", "o", cfg.OutputDir, "出力ディレクトリ")
	pf.StringVarP(&Flags.Keyword, "keyword", "k", cfg.Keyword, "フィルタリングするキーワード")
	pf.BoolVar(&Flags.NoRobots, "no-robots", !cfg.RespectRobots, "robots.txtチェックを無効にする（非推奨）")
	pf.BoolVar(&Flags.NoSave, "no-save", false, "抽出結果をファイルに保存しない")
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	logger = newLogger(cfg.LogLevel, clibase.Flags.Verbose)

	timeout := time.Duration(Flags.TimeoutSec) * time.Second
	logger.Debug().
		Dur("timeout", timeout).
		Int("max_retries", Flags.MaxRetries).
		Int("min_text_length", Flags.MinTextLength).
		Dur("delay", Flags.Delay).
		Msg("HTTPクライアントを初期化します")

	if Flags.NoRobots {
		logger.Warn().Msg("robots.txtチェックが無効になっています。Webサイトの利用規約に違反する可能性があります。")
	}

	// ページ・フィード・robots.txt はすべて --user-agent で取得する
	globalDoer = transport.NewUserAgentDoer(&http.Client{Timeout: timeout}, Flags.UserAgent, timeout)

	// 共有フェッチャーの初期化
	globalFetcher = httpkit.New(
		timeout,
		httpkit.WithMaxRetries(uint64(Flags.MaxRetries)),
		httpkit.WithHTTPClient(globalDoer),
	)
	return nil
}

func newLogger(level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

// GetGlobalFetcher は、初期化されたフェッチャーを返す関数 (DIの代わり)
func GetGlobalFetcher() extract.Fetcher {
	return globalFetcher
}

// overallTimeout はクライアントタイムアウトから処理全体のタイムアウトを求めます。
// perItem 件のURLを順に処理する場合、その件数分を見込みます。
func overallTimeout(perItem int) time.Duration {
	if perItem < 1 {
		perItem = 1
	}
	base := time.Duration(Flags.TimeoutSec*overallTimeoutFactor) * time.Second
	if Flags.TimeoutSec <= 0 {
		base = DefaultOverallTimeout
	}
	return base*time.Duration(perItem) + Flags.Delay*time.Duration(perItem)
}

// newPipeline はフラグの設定から1URL分の処理パイプラインを組み立てます。
func newPipeline() (*pipeline.Pipeline, error) {
	fetcher := GetGlobalFetcher()
	if fetcher == nil {
		return nil, fmt.Errorf("HTTPクライアントの取得に失敗しました")
	}

	extractor, err := extract.NewExtractor(
		fetcher,
		extract.WithMinTextLength(Flags.MinTextLength),
		extract.WithLogger(&logger),
	)
	if err != nil {
		return nil, fmt.Errorf("Extractorの初期化エラー: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithKeyword(Flags.Keyword),
		pipeline.WithLogger(&logger),
	}

	// robots.txt とページの取得で同じリミッターを共有する
	var limiter *pipeline.DomainLimiter
	if Flags.Delay > 0 {
		limiter = pipeline.NewDomainLimiter(Flags.Delay)
		opts = append(opts, pipeline.WithLimiter(limiter))
	}

	if !Flags.NoRobots {
		robotsOpts := []robots.Option{robots.WithLogger(&logger)}
		if globalDoer != nil {
			robotsOpts = append(robotsOpts, robots.WithHTTPClient(globalDoer))
		}
		if limiter != nil {
			robotsOpts = append(robotsOpts, robots.WithWaiter(limiter))
		}
		opts = append(opts, pipeline.WithRobots(robots.NewChecker(Flags.UserAgent, robotsOpts...)))
	}
	return pipeline.New(extractor, opts...)
}

// --- エントリポイント ---

// Execute は、rootCmd を実行するメイン関数です。clibaseのExecuteを使用する。
func Execute() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		extractCmd,
		scraperCmd,
		feedCmd,
	)
}
