package cmd

import (
	"fmt"
	"net/url"
	"strings"
)

// ensureScheme は、URLのスキームが存在しない場合に https:// を補完します。
// 既にスキームが存在する場合は、それが http または https であるかをチェックします。
func ensureScheme(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("URLが入力されていません")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}

	if parsedURL.Scheme != "" {
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", rawURL)
		}
		return rawURL, nil
	}

	// スキームなしで入力された場合、HTTPSを優先します
	return "https://" + rawURL, nil
}

// normalizeURLs は URL の一覧にスキームを補完し、空行を取り除きます。
func normalizeURLs(rawURLs []string) ([]string, error) {
	urls := make([]string, 0, len(rawURLs))
	for _, raw := range rawURLs {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		u, err := ensureScheme(raw)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}
