package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shouni/go-generic-scraper/pkg/types"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		record   types.PageRecord
		keyword  string
		expected Result
	}{
		{
			name:     "キーワードなしはフィルタしない",
			record:   types.PageRecord{},
			keyword:  "",
			expected: Result{Matched: true, Field: FieldNone},
		},
		{
			name:     "本文をタイトルより優先",
			record:   types.PageRecord{Title: "Go News", Content: "latest go release"},
			keyword:  "go",
			expected: Result{Matched: true, Field: FieldContent},
		},
		{
			name:     "大文字小文字を区別しない",
			record:   types.PageRecord{Content: "BREAKING story"},
			keyword:  "Breaking",
			expected: Result{Matched: true, Field: FieldContent},
		},
		{
			name:     "本文が空ならタイトル",
			record:   types.PageRecord{Title: "週刊ニュース", Description: "ニュース"},
			keyword:  "ニュース",
			expected: Result{Matched: true, Field: FieldTitle},
		},
		{
			name:     "説明文のみ一致",
			record:   types.PageRecord{Title: "title", Content: "body", Description: "天気予報"},
			keyword:  "予報",
			expected: Result{Matched: true, Field: FieldDescription},
		},
		{
			name:     "カタカナとひらがなを同一視",
			record:   types.PageRecord{Content: "ニュース速報"},
			keyword:  "にゅーす",
			expected: Result{Matched: true, Field: FieldContent},
		},
		{
			name:     "全角と半角を同一視",
			record:   types.PageRecord{Content: "ＧＯ言語の入門"},
			keyword:  "go",
			expected: Result{Matched: true, Field: FieldContent},
		},
		{
			name:     "半角カタカナ",
			record:   types.PageRecord{Title: "ｶﾞｲﾄﾞ"},
			keyword:  "ガイド",
			expected: Result{Matched: true, Field: FieldTitle},
		},
		{
			name:     "一致なし",
			record:   types.PageRecord{Title: "title", Content: "body", Description: "desc"},
			keyword:  "missing",
			expected: NoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.record, tt.keyword))
		})
	}
}

func TestMatch_DoesNotModifyRecord(t *testing.T) {
	record := types.PageRecord{Title: "ＴＩＴＬＥ", Content: "カタカナ", Images: []string{"https://ex.com/a.png"}}
	before := record
	before.Images = append([]string(nil), record.Images...)

	Match(record, "かたかな")

	assert.Equal(t, before, record)
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "no-match", NoMatch.String())
	assert.Equal(t, "unfiltered", Result{Matched: true}.String())
	assert.Equal(t, "matched:title", Result{Matched: true, Field: FieldTitle}.String())
	assert.True(t, Result{Matched: true}.Unfiltered())
	assert.False(t, Result{Matched: true, Field: FieldContent}.Unfiltered())
}

func TestFilter(t *testing.T) {
	record := &types.PageRecord{Content: "hello world"}

	t.Run("一致すればそのまま返す", func(t *testing.T) {
		got, result := Filter(record, "WORLD")
		assert.Same(t, record, got)
		assert.Equal(t, FieldContent, result.Field)
	})

	t.Run("一致しなければ nil", func(t *testing.T) {
		got, result := Filter(record, "missing")
		assert.Nil(t, got)
		assert.Equal(t, NoMatch, result)
	})

	t.Run("nil の record", func(t *testing.T) {
		got, result := Filter(nil, "")
		assert.Nil(t, got)
		assert.False(t, result.Matched)
	})
}
