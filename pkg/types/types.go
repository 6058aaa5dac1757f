package types

// PageRecord は、1つのWebページから抽出された構造化データです。
// 抽出処理が返した時点で呼び出し元の所有となり、以降は変更されません。
type PageRecord struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Images      []string `json:"images"`
	Links       []string `json:"links"`
}

// HasContent は本文が抽出できたかどうかを返します。
func (r PageRecord) HasContent() bool {
	return r.Content != ""
}

// URLResult は、特定のURLから抽出された結果、またはその処理中に発生したエラーを保持します。
// これは、Scraperの出力として利用されます。
type URLResult struct {
	URL          string      // 処理対象のURL
	Record       *PageRecord // 抽出結果 (エラー時、またはキーワード不一致時は nil)
	MatchedField string      // キーワードが見つかったフィールド (フィルタなしの場合は空)
	Error        error       // 処理中に発生したエラー
}
