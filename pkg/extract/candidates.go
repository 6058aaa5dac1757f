package extract

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"
)

// ----------------------------------------------------------------------
// 定数定義 (本文候補の生成)
// ----------------------------------------------------------------------

const (
	// DefaultMinTextLength は、段落を本文とみなす最小文字数のデフォルト値です。
	DefaultMinTextLength = 50

	// largeBlockFactor は、汎用 div を候補とするための倍率です。
	largeBlockFactor = 5

	paragraphSeparator     = "\n\n"
	paragraphSelector      = "p"
	largeBlockSelector     = "div"
	structuredDataSelector = "script[type='application/ld+json']"
	articleBodyKey         = "articleBody"
)

// semanticContainerSelectors は、本文を含みやすい要素のセレクタです。順序は候補の順序になります。
var semanticContainerSelectors = []string{
	"article", ".article", "#article",
	".content", "#content",
	".main", "#main", "main",
	"section", ".section", "#section",
}

// GenerateCandidates は、4つの独立した方法で本文候補を生成します。
//  1. 記事/コンテンツらしき要素 (要素ごとに1候補)
//  2. minTextLength を超える段落をまとめた1候補
//  3. minTextLength の5倍を超える div (要素ごとに1候補)
//  4. JSON-LD の articleBody
//
// minTextLength が0以下の場合、方法2と3はすべての要素を受け入れます。
// 候補は重複しうるため、呼び出し側は一意性を前提にしないでください。
func GenerateCandidates(doc *goquery.Document, minTextLength int) []string {
	var candidates []string

	candidates = append(candidates, semanticContainerCandidates(doc)...)
	if joined, ok := paragraphCandidate(doc, minTextLength); ok {
		candidates = append(candidates, joined)
	}
	candidates = append(candidates, largeBlockCandidates(doc, minTextLength*largeBlockFactor)...)
	candidates = append(candidates, structuredDataCandidates(doc)...)

	return candidates
}

func semanticContainerCandidates(doc *goquery.Document) []string {
	var candidates []string
	for _, selector := range semanticContainerSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			candidates = append(candidates, textUtils.NormalizeText(s.Text()))
		})
	}
	return candidates
}

func paragraphCandidate(doc *goquery.Document, minTextLength int) (string, bool) {
	var paragraphs []string
	doc.Find(paragraphSelector).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if exceeds(text, minTextLength) {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return "", false
	}
	return strings.Join(paragraphs, paragraphSeparator), true
}

func largeBlockCandidates(doc *goquery.Document, threshold int) []string {
	var candidates []string
	doc.Find(largeBlockSelector).Each(func(_ int, s *goquery.Selection) {
		text := textUtils.NormalizeText(s.Text())
		if exceeds(text, threshold) {
			candidates = append(candidates, text)
		}
	})
	return candidates
}

// structuredDataCandidates は JSON-LD ブロックから articleBody を取り出します。
// 解析できないブロックは読み飛ばします。
func structuredDataCandidates(doc *goquery.Document) []string {
	var candidates []string
	doc.Find(structuredDataSelector).Each(func(_ int, s *goquery.Selection) {
		if body, ok := parseArticleBody(s.Text()); ok {
			candidates = append(candidates, body)
		}
	})
	return candidates
}

func parseArticleBody(raw string) (string, bool) {
	var data map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &data); err != nil {
		return "", false
	}
	body, ok := data[articleBodyKey].(string)
	if !ok || body == "" {
		return "", false
	}
	return body, true
}

// exceeds はテキストの文字数 (バイト数ではない) が threshold を超えるかを判定します。
// threshold が0以下の場合は常に true です。
func exceeds(text string, threshold int) bool {
	if threshold <= 0 {
		return true
	}
	return utf8.RuneCountInString(text) > threshold
}
