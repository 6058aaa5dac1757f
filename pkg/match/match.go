// Package match は、抽出済みの PageRecord がキーワードを含むかを判定します。
// カタカナ/ひらがな、全角/半角の違いを吸収した比較も行います。
package match

import (
	"strings"

	"github.com/shouni/go-generic-scraper/pkg/textnorm"
	"github.com/shouni/go-generic-scraper/pkg/types"
)

// Field は、キーワードが見つかったフィールドを表します。
type Field string

const (
	FieldNone        Field = ""
	FieldContent     Field = "content"
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
)

// Result は判定結果です。Matched が false の場合、Field は常に FieldNone です。
// キーワードが空の場合は Matched=true、Field=FieldNone (フィルタなし) になります。
type Result struct {
	Matched bool
	Field   Field
}

// NoMatch はどのフィールドにも一致しなかった結果です。
var NoMatch = Result{}

// Unfiltered は、キーワードが指定されなかった場合の結果です。
func (r Result) Unfiltered() bool {
	return r.Matched && r.Field == FieldNone
}

// String はログ出力用の表現を返します。
func (r Result) String() string {
	switch {
	case !r.Matched:
		return "no-match"
	case r.Field == FieldNone:
		return "unfiltered"
	default:
		return "matched:" + string(r.Field)
	}
}

// Match は record の本文、タイトル、説明文の順にキーワードを探し、最初に一致したフィールドを返します。
// 各フィールドは、小文字化した生の文字列での部分一致、または正規化後の部分一致で判定します。
// record は変更しません。
func Match(record types.PageRecord, keyword string) Result {
	if keyword == "" {
		return Result{Matched: true}
	}

	rawProbe := textnorm.Lower(keyword)
	normalizedProbe := textnorm.Normalize(keyword)

	fields := []struct {
		name  Field
		value string
	}{
		{FieldContent, record.Content},
		{FieldTitle, record.Title},
		{FieldDescription, record.Description},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if strings.Contains(textnorm.Lower(f.value), rawProbe) ||
			strings.Contains(textnorm.Normalize(f.value), normalizedProbe) {
			return Result{Matched: true, Field: f.name}
		}
	}
	return NoMatch
}

// Filter は Match の結果に応じて record をそのまま返すか、nil を返します。
func Filter(record *types.PageRecord, keyword string) (*types.PageRecord, Result) {
	if record == nil {
		return nil, NoMatch
	}
	result := Match(*record, keyword)
	if !result.Matched {
		return nil, result
	}
	return record, result
}
