package textnorm

import (
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"空文字", "", ""},
		{"全角英数字を半角に", "ＡＢＣ１２３", "abc123"},
		{"大文字を小文字に", "Breaking NEWS", "breaking news"},
		{"カタカナをひらがなに", "ニュース速報", "にゅーす速報"},
		{"半角カタカナの濁点を合成", "ｶﾞｷﾞ", "がぎ"},
		{"踊り字", "ヽヾ", "ゝゞ"},
		{"ひらがなと漢字はそのまま", "ひらがなと漢字", "ひらがなと漢字"},
		{"混在", "Ｇｏ言語のプログラム", "go言語のぷろぐらむ"},
		{"チェロキー文字", "ᎠᎡ", "ꭰꭱ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"ＡＢＣ１２３",
		"ニュース速報",
		"ｶﾞｷﾞｸﾞ",
		"Straße ＳＴＲＡＳＳＥ",
		"ヴァイオリン",
		"ヷヸヹヺ",
		"İstanbul",
		"混在 Ｍｉｘｅｄ ﾃｷｽﾄ カタカナ",
		"ᎠᎡᎢ ꭰꭱꭲ",
		"ΟΔΥΣΣΕΥΣ",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input: %q", in)
	}
}

func TestLower(t *testing.T) {
	assert.Equal(t, "breaking news", Lower("Breaking NEWS"))
	// Lower は文字種の変換を行わない
	assert.Equal(t, "ニュース", Lower("ニュース"))
}

// TestNormalize_IdempotentOverCodePoints は BMP から SIP までの全コードポイントを1文字ずつ確認します。
func TestNormalize_IdempotentOverCodePoints(t *testing.T) {
	var failures []string
	for r := rune(0); r <= 0x2FFFF; r++ {
		if !utf8.ValidRune(r) {
			continue // サロゲート
		}
		s := string(r)
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			failures = append(failures, fmt.Sprintf("U+%04X: %q -> %q -> %q", r, s, once, twice))
		}
	}
	assert.Empty(t, failures)
}

func TestNormalize_IdempotentWithKanaMarks(t *testing.T) {
	// 半角カタカナと結合用の濁点・半濁点の組み合わせ
	var failures []string
	for r := rune(0xFF61); r <= 0xFF9F; r++ {
		for _, mark := range []string{"ﾞ", "ﾟ", "\u3099", "\u309A"} {
			s := string(r) + mark
			once := Normalize(s)
			if twice := Normalize(once); twice != once {
				failures = append(failures, fmt.Sprintf("%q -> %q -> %q", s, once, twice))
			}
		}
	}
	for r := rune(0x30A1); r <= 0x30FE; r++ {
		for _, mark := range []string{"\u3099", "\u309A"} {
			s := string(r) + mark
			once := Normalize(s)
			if twice := Normalize(once); twice != once {
				failures = append(failures, fmt.Sprintf("%q -> %q -> %q", s, once, twice))
			}
		}
	}
	assert.Empty(t, failures)
}
