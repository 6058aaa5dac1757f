package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-generic-scraper/pkg/urlutil"
)

// LinkDetail は、リンク先URLとアンカーテキストの組です。
type LinkDetail struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// CollectMediaAndLinks は、画像URLとリンクURLを文書内の出現順に収集します。
// 画像は og:image を先頭に置き、続いて <img src> を並べます。
// 解決できないURLは読み飛ばし、重複は除去しません。
func CollectMediaAndLinks(doc *goquery.Document, baseURL string) (images, links []string) {
	images = CollectImages(doc, baseURL)
	for _, l := range CollectLinkDetails(doc, baseURL) {
		links = append(links, l.URL)
	}
	return images, links
}

// CollectImages は og:image と <img> の src を絶対URLとして返します。
func CollectImages(doc *goquery.Document, baseURL string) []string {
	var images []string
	if og := metaContent(doc, ogImageSelector); og != "" {
		if abs, ok := urlutil.Resolve(baseURL, og); ok {
			images = append(images, abs)
		}
	}
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if abs, ok := urlutil.Resolve(baseURL, strings.TrimSpace(src)); ok {
			images = append(images, abs)
		}
	})
	return images
}

// CollectLinkDetails は <a href> をアンカーテキスト付きで返します。
// #、javascript:、mailto: で始まる href は対象外です。
func CollectLinkDetails(doc *goquery.Document, baseURL string) []LinkDetail {
	var links []LinkDetail
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || urlutil.IsSkippableHref(href) {
			return
		}
		abs, ok := urlutil.Resolve(baseURL, href)
		if !ok {
			return
		}
		links = append(links, LinkDetail{
			URL:  abs,
			Text: strings.TrimSpace(s.Text()),
		})
	})
	return links
}
