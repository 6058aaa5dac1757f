// Package store は、抽出した PageRecord を JSON と CSV で保存します。
package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-generic-scraper/pkg/types"
	"github.com/shouni/go-generic-scraper/pkg/urlutil"
)

const (
	timestampLayout = "20060102_150405"
	filteredSuffix  = "_filtered"
	listSeparator   = ","

	// maxNameAttempts は同名ファイルがある場合に連番を試す上限です。
	maxNameAttempts = 1000
)

// csvHeader は CSV のヘッダー行で、PageRecord の JSON フィールド名と一致します。
var csvHeader = []string{"url", "title", "description", "content", "images", "links"}

// Paths は保存したファイルのパスです。
type Paths struct {
	JSON string
	CSV  string
}

// BaseName は "<domain>_<YYYYmmdd_HHMMSS>" 形式のファイル名 (拡張子なし) を返します。
// ドメインの "." は "_" に置き換えます。
func BaseName(rawURL string, now time.Time, filtered bool) string {
	domain := strings.ReplaceAll(urlutil.Domain(rawURL), ".", "_")
	name := fmt.Sprintf("%s_%s", domain, now.Format(timestampLayout))
	if filtered {
		name += filteredSuffix
	}
	return name
}

// Save は record を dir 配下に JSON と CSV の両方で保存します。
// 同じ秒に同じドメインのファイルが既にある場合は "_2", "_3" ... の連番を付け、既存ファイルは上書きしません。
func Save(dir string, record types.PageRecord, filtered bool, now time.Time) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	name := BaseName(record.URL, now, filtered)
	for n := 1; n <= maxNameAttempts; n++ {
		base := filepath.Join(dir, name)
		if n > 1 {
			base = fmt.Sprintf("%s_%d", base, n)
		}
		paths := Paths{JSON: base + ".json", CSV: base + ".csv"}

		// JSON の排他作成でファイル名を確保する
		f, err := os.OpenFile(paths.JSON, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return Paths{}, fmt.Errorf("JSONファイルの作成に失敗しました: %w", err)
		}
		err = encodeJSON(f, record)
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("JSONファイルのクローズに失敗しました: %w", closeErr)
		}
		if err != nil {
			return Paths{}, err
		}

		if err := WriteCSV(paths.CSV, record); err != nil {
			return Paths{}, err
		}
		return paths, nil
	}
	return Paths{}, fmt.Errorf("保存先のファイル名を確保できませんでした: %s", filepath.Join(dir, name))
}

// WriteJSON は record をインデント付きJSONで書き出します。
func WriteJSON(path string, record types.PageRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("JSONファイルの作成に失敗しました: %w", err)
	}
	defer f.Close()
	return encodeJSON(f, record)
}

func encodeJSON(w io.Writer, record types.PageRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("JSONの書き込みに失敗しました: %w", err)
	}
	return nil
}

// WriteCSV は record をヘッダー付きの1行CSVで書き出します。
// images と links はカンマ区切りの1フィールドにまとめます。
func WriteCSV(path string, record types.PageRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("CSVファイルの作成に失敗しました: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := []string{
		record.URL,
		record.Title,
		record.Description,
		record.Content,
		strings.Join(record.Images, listSeparator),
		strings.Join(record.Links, listSeparator),
	}
	if err := w.WriteAll([][]string{csvHeader, row}); err != nil {
		return fmt.Errorf("CSVの書き込みに失敗しました: %w", err)
	}
	return nil
}
