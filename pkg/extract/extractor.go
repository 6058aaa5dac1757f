package extract

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/shouni/go-generic-scraper/pkg/types"
)

// Extractor は、Fetcher を使ってコンテンツ抽出プロセスを管理します。
type Extractor struct {
	fetcher       Fetcher
	minTextLength int
	logger        *zerolog.Logger
}

// Option は Extractor の設定を行うための関数型です。
type Option func(*Extractor)

// WithMinTextLength は段落を本文とみなす最小文字数を設定します。
// 0以下の値もそのまま渡され、すべての段落を受け入れる挙動になります。
func WithMinTextLength(n int) Option {
	return func(e *Extractor) {
		e.minTextLength = n
	}
}

// WithLogger は抽出結果の記録に使うロガーを設定します。
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(fetcher Fetcher, opts ...Option) (*Extractor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Fetcher cannot be nil")
	}
	nop := zerolog.Nop()
	e := &Extractor{
		fetcher:       fetcher,
		minTextLength: DefaultMinTextLength,
		logger:        &nop,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// FetchAndExtract は指定されたURLからコンテンツを取得し、PageRecord を抽出します。
// エラーになるのは取得とHTML解析の失敗のみで、抽出自体は失敗しません。
func (e *Extractor) FetchAndExtract(ctx context.Context, url string) (*types.PageRecord, error) {
	// 1. Fetcherから生のバイト配列を取得 (通信の責務)
	htmlBytes, err := e.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("ページの取得に失敗しました (URL: %s): %w", url, err)
	}

	// 2. 文字コードを判定してgoquery.Documentに変換 (解析の責務)
	doc, err := ParseDocument(htmlBytes)
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました (URL: %s): %w", url, err)
	}

	// 3. 抽出
	record := Extract(doc, url, e.minTextLength)
	e.logRecord(&record)

	return &record, nil
}

// ParseDocument は HTML のバイト列を UTF-8 に変換してから解析します。
// Shift_JIS や EUC-JP のページは meta charset から判定します。
func ParseDocument(htmlBytes []byte) (*goquery.Document, error) {
	enc, _, _ := charset.DetermineEncoding(htmlBytes, "")
	utf8Bytes, err := enc.NewDecoder().Bytes(htmlBytes)
	if err != nil {
		if !utf8.Valid(htmlBytes) {
			return nil, fmt.Errorf("文字コードの変換に失敗しました: %w", err)
		}
		utf8Bytes = htmlBytes
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(utf8Bytes))
}

func (e *Extractor) logRecord(record *types.PageRecord) {
	e.logger.Debug().
		Str("url", record.URL).
		Str("title", record.Title).
		Int("description_len", utf8.RuneCountInString(record.Description)).
		Int("content_len", utf8.RuneCountInString(record.Content)).
		Int("images", len(record.Images)).
		Int("links", len(record.Links)).
		Msg("ページを抽出しました")

	if !record.HasContent() {
		e.logger.Warn().Str("url", record.URL).Msg("本文が見つかりませんでした")
	}
}
