package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/shouni/go-generic-scraper/pkg/store"
	"github.com/shouni/go-generic-scraper/pkg/types"
)

const previewLength = 100

// saveResult は成功した結果をJSONとCSVで保存します。--no-save 指定時は何もしません。
func saveResult(res types.URLResult) error {
	if Flags.NoSave || res.Record == nil {
		return nil
	}
	paths, err := store.Save(Flags.OutputDir, *res.Record, Flags.Keyword != "", time.Now())
	if err != nil {
		return fmt.Errorf("抽出結果の保存に失敗しました (URL: %s): %w", res.URL, err)
	}
	logger.Info().Str("json", paths.JSON).Str("csv", paths.CSV).Msg("抽出結果を保存しました")
	return nil
}

// printRecord は PageRecord をインデント付きJSONで出力します。
func printRecord(w io.Writer, record *types.PageRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}

// preview は本文の先頭 previewLength 文字を返します。
func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	return string([]rune(text)[:previewLength]) + "..."
}
