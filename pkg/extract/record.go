package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-generic-scraper/pkg/types"
)

// Assemble は各抽出結果から PageRecord を組み立てます。
// nil のスライスは空スライスに置き換えます。
func Assemble(url, title, description, content string, images, links []string) types.PageRecord {
	if images == nil {
		images = []string{}
	}
	if links == nil {
		links = []string{}
	}
	return types.PageRecord{
		URL:         url,
		Title:       title,
		Description: description,
		Content:     content,
		Images:      images,
		Links:       links,
	}
}

// Extract は解析済みドキュメントから PageRecord を生成します。
// doc は読み取りのみで、状態を持たないため複数のドキュメントに対して並行に呼び出せます。
func Extract(doc *goquery.Document, sourceURL string, minTextLength int) types.PageRecord {
	title, description := ExtractMetadata(doc)
	content := SelectContent(GenerateCandidates(doc, minTextLength))
	images, links := CollectMediaAndLinks(doc, sourceURL)
	return Assemble(sourceURL, title, description, content, images, links)
}
