package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTitle は、どこからもタイトルが得られなかった場合の値です。
	DefaultTitle = "No Title"

	ogTitleSelector       = "meta[property='og:title']"
	ogDescriptionSelector = "meta[property='og:description']"
	ogImageSelector       = "meta[property='og:image']"
	descriptionSelector   = "meta[name='description']"
)

// ExtractMetadata はタイトルと説明文を抽出します。
// タイトルは <title> → og:title → DefaultTitle、
// 説明文は <meta name="description"> → og:description → 空文字 の順にフォールバックします。
// <meta name="description"> が存在する場合は、content が空でもその値を使います。
func ExtractMetadata(doc *goquery.Document) (title, description string) {
	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = metaContent(doc, ogTitleSelector)
	}
	if title == "" {
		title = DefaultTitle
	}

	if desc := doc.Find(descriptionSelector).First(); desc.Length() > 0 {
		content, _ := desc.Attr("content")
		description = strings.TrimSpace(content)
	} else {
		description = metaContent(doc, ogDescriptionSelector)
	}
	return title, description
}

// metaContent は selector に一致する最初の meta 要素の content を返します。
func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
