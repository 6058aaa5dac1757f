package feed

import (
	"github.com/mmcdole/gofeed"

	"github.com/shouni/go-generic-scraper/pkg/urlutil"
)

// LinkSource は、スクレイピング対象のURL一覧を提供できる任意の型を表します。
type LinkSource interface {
	GetLinks() []string
}

// FeedAdapter は gofeed.Feed を LinkSource に適合させるためのアダプターです。
type FeedAdapter struct {
	*gofeed.Feed
	baseURL string
}

// NewFeedAdapter は gofeed.Feed から新しいアダプターを作成します。
// baseURL は相対リンクの解決に使用します。
func NewFeedAdapter(feed *gofeed.Feed, baseURL string) *FeedAdapter {
	return &FeedAdapter{Feed: feed, baseURL: baseURL}
}

// GetLinks は記事のリンクを絶対URLとして返します。空のリンクと解決できないリンクは除外します。
func (a *FeedAdapter) GetLinks() []string {
	if a.Feed == nil || len(a.Items) == 0 {
		return []string{}
	}

	urls := make([]string, 0, len(a.Items))
	for _, item := range a.Items {
		if item == nil {
			continue
		}
		if abs, ok := urlutil.Resolve(a.baseURL, item.Link); ok {
			urls = append(urls, abs)
		}
	}
	return urls
}

// GetAllLinks は LinkSource からリンクを抽出する汎用関数です。
func GetAllLinks(source LinkSource) []string {
	if source == nil {
		return []string{}
	}
	return source.GetLinks()
}
