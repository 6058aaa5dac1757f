package extract

import "unicode/utf8"

// SelectContent は、候補の中で最も文字数の多いものを返します。
// 同じ長さの場合は先に現れた候補を優先し、候補がなければ空文字を返します。
func SelectContent(candidates []string) string {
	best := ""
	bestLen := -1
	for _, c := range candidates {
		if n := utf8.RuneCountInString(c); n > bestLen {
			best, bestLen = c, n
		}
	}
	return best
}
