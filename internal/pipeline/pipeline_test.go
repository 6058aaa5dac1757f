package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-generic-scraper/pkg/robots"
	"github.com/shouni/go-generic-scraper/pkg/types"
)

type fakeExtractor struct {
	record *types.PageRecord
	err    error
	calls  int
}

func (f *fakeExtractor) FetchAndExtract(ctx context.Context, url string) (*types.PageRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	r := *f.record
	r.URL = url
	return &r, nil
}

type fakeRobots struct {
	disallowed bool
}

func (f *fakeRobots) Check(ctx context.Context, url string) error {
	if f.disallowed {
		return fmt.Errorf("%w: %s", robots.ErrDisallowed, url)
	}
	return nil
}

func TestNew_NilExtractor(t *testing.T) {
	p, err := New(nil)
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestPipeline_Run(t *testing.T) {
	const target = "https://ex.com/article"
	page := &types.PageRecord{Title: "天気のニュース", Content: "今日は晴れです", Images: []string{}, Links: []string{}}

	tests := []struct {
		name          string
		extractor     *fakeExtractor
		opts          []Option
		wantErrIs     error
		wantErrSubstr string
		wantField     string
		wantCalls     int
	}{
		{
			name:      "フィルタなし",
			extractor: &fakeExtractor{record: page},
			wantCalls: 1,
		},
		{
			name:      "タイトルで一致",
			extractor: &fakeExtractor{record: page},
			opts:      []Option{WithKeyword("にゅーす")},
			wantField: "title",
			wantCalls: 1,
		},
		{
			name:          "キーワード不一致",
			extractor:     &fakeExtractor{record: page},
			opts:          []Option{WithKeyword("雨")},
			wantErrIs:     ErrNoMatch,
			wantErrSubstr: "キーワード: 雨",
			wantCalls:     1,
		},
		{
			name:      "robots.txt で禁止",
			extractor: &fakeExtractor{record: page},
			opts:      []Option{WithRobots(&fakeRobots{disallowed: true})},
			wantErrIs: robots.ErrDisallowed,
			wantCalls: 0,
		},
		{
			name:          "抽出エラー",
			extractor:     &fakeExtractor{err: errors.New("timeout")},
			opts:          []Option{WithRobots(&fakeRobots{})},
			wantErrSubstr: "コンテンツ抽出エラー",
			wantCalls:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.extractor, tt.opts...)
			require.NoError(t, err)

			res := p.Run(context.Background(), target)

			assert.Equal(t, target, res.URL)
			assert.Equal(t, tt.wantCalls, tt.extractor.calls)
			if tt.wantErrIs == nil && tt.wantErrSubstr == "" {
				require.NoError(t, res.Error)
				require.NotNil(t, res.Record)
				assert.Equal(t, target, res.Record.URL)
				assert.Equal(t, tt.wantField, res.MatchedField)
				return
			}
			require.Error(t, res.Error)
			assert.Nil(t, res.Record)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, res.Error, tt.wantErrIs)
			}
			if tt.wantErrSubstr != "" {
				assert.Contains(t, res.Error.Error(), tt.wantErrSubstr)
			}
		})
	}
}

func TestPipeline_DelayCanceled(t *testing.T) {
	ext := &fakeExtractor{record: &types.PageRecord{Content: "body"}}
	p, err := New(ext, WithDelay(time.Hour))
	require.NoError(t, err)

	first := p.Run(context.Background(), "https://ex.com/1")
	require.NoError(t, first.Error)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	second := p.Run(ctx, "https://ex.com/2")

	assert.Error(t, second.Error)
	assert.Equal(t, 1, ext.calls)
}

func TestDomainLimiter(t *testing.T) {
	l := NewDomainLimiter(time.Hour)

	require.NoError(t, l.Wait(context.Background(), "ex.com"))
	// 別ドメインは待たされない
	require.NoError(t, l.Wait(context.Background(), "other.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "ex.com"))
}

// limitedRobots は robots.txt の取得と同じように、確認のたびにリミッターで待機します。
type limitedRobots struct {
	limiter *DomainLimiter
}

func (r *limitedRobots) Check(ctx context.Context, url string) error {
	return r.limiter.Wait(ctx, "ex.com")
}

func TestPipeline_SharedLimiterSpacesRobotsAndPage(t *testing.T) {
	limiter := NewDomainLimiter(time.Hour)
	ext := &fakeExtractor{record: &types.PageRecord{Content: "body"}}
	p, err := New(ext, WithLimiter(limiter), WithRobots(&limitedRobots{limiter: limiter}))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	res := p.Run(ctx, "https://ex.com/page")

	// robots.txt の取得でトークンを使ったため、ページ取得は間隔を待たされる
	require.Error(t, res.Error)
	assert.Contains(t, res.Error.Error(), "リクエスト間隔の待機中に中断されました")
	assert.Equal(t, 0, ext.calls)
}
