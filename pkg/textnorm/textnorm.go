// Package textnorm は、日本語を含むテキストを比較用の正規形に畳み込みます。
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const (
	katakanaStart   = 'ァ' // U+30A1
	katakanaEnd     = 'ヶ' // U+30F6
	iterationStart  = 'ヽ' // U+30FD
	iterationEnd    = 'ヾ' // U+30FE
	kanaShiftOffset = 0x60
)

// Normalize は比較用にテキストを正規化します。
//   - 全角英数字・記号を半角に、半角カタカナを全角に揃える
//   - 小文字に揃える
//   - カタカナをひらがなに変換する
//   - 濁点などの結合文字を NFC で合成する
//
// Normalize(Normalize(s)) == Normalize(s) が常に成り立ちます。
func Normalize(text string) string {
	if text == "" {
		return text
	}

	folded := width.Fold.String(text)
	// cases.Fold はチェロキー文字を往復させるため使わない。
	// cases.Caser はゴルーチン間で共有できないため、呼び出しごとに生成する
	folded = cases.Lower(language.Und).String(folded)
	folded = strings.Map(katakanaToHiragana, folded)

	return norm.NFC.String(folded)
}

// Lower は生の部分一致判定に使う小文字化のみを行います。
func Lower(text string) string {
	return strings.ToLower(text)
}

func katakanaToHiragana(r rune) rune {
	switch {
	case r >= katakanaStart && r <= katakanaEnd:
		return r - kanaShiftOffset
	case r >= iterationStart && r <= iterationEnd:
		return r - kanaShiftOffset
	default:
		return r
	}
}
