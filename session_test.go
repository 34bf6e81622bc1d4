package journalcrop

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testFigure = Box{100, 300, 300, 450}
	testInset  = Box{120, 320, 200, 400}
)

// articlePage has a title, a captioned figure with a smaller rectangle
// drawn inside it, a header rule and a primary heading.
func articlePage() *PageContent {
	var chars []Char
	chars = append(chars, textChars("面向大模型的数据管理", 100, 100, 28)...)
	chars = append(chars, textChars("图1 系统架构", 110, 455, 10)...)
	chars = append(chars, textChars("引言", 100, 500, 16)...)

	page := testPage(chars)
	page.Images = []Box{testFigure}
	page.Rects = []Box{testInset, {100, 10, 300, 50}}
	return page
}

func TestSession_Run(t *testing.T) {
	doc := newFakeDocument(articlePage())
	store := newMemStore()
	s := NewSession(doc, DefaultConfig(), discardLogger())

	stats, err := s.Run(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, SessionStats{Pages: 1, Saved: 2, Removed: 1, Headings: 2}, stats)
	assert.ElementsMatch(t, []string{"图1 系统架构"}, store.names())
	assert.Equal(t, []string{"page_0_1"}, store.removed)
	assert.Equal(t, 1, doc.closed)

	data, err := json.Marshal(s.Outline().Mapping())
	require.NoError(t, err)
	assert.JSONEq(t, `{"面向大模型的数据管理":{"引言":{}}}`, string(data))
}

func TestSession_CropsAtZoom(t *testing.T) {
	page := articlePage()
	page.Rects = nil
	doc := newFakeDocument(page)
	store := newMemStore()

	_, err := NewSession(doc, DefaultConfig(), discardLogger()).Run(context.Background(), store)
	require.NoError(t, err)

	img := store.saved["图1 系统架构"]
	require.NotNil(t, img)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 450, img.Bounds().Dy())
}

func TestSession_SaveFailuresAreSkipped(t *testing.T) {
	t.Run("render", func(t *testing.T) {
		doc := newFakeDocument(articlePage())
		doc.renderErr = errors.New("render failed")

		stats, err := NewSession(doc, DefaultConfig(), discardLogger()).Run(context.Background(), newMemStore())
		require.NoError(t, err)
		assert.Equal(t, 2, stats.FailedSaves)
		assert.Zero(t, stats.Saved)
		assert.Equal(t, 2, stats.Headings)
	})

	t.Run("store", func(t *testing.T) {
		doc := newFakeDocument(articlePage())
		store := newMemStore()
		store.failSave["图1 系统架构"] = true

		stats, err := NewSession(doc, DefaultConfig(), discardLogger()).Run(context.Background(), store)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.FailedSaves)
		assert.Equal(t, 1, stats.Saved)
		assert.ElementsMatch(t, []string{"page_0_0"}, store.names(), "the ordinal only advances on saved regions")
	})
}

func TestSession_PageErrorClosesDocument(t *testing.T) {
	doc := newFakeDocument(articlePage(), articlePage())
	doc.pageErr = map[int]error{1: errors.New("broken xref")}

	stats, err := NewSession(doc, DefaultConfig(), discardLogger()).Run(context.Background(), newMemStore())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	assert.Equal(t, 1, stats.Pages)
	assert.Equal(t, 1, doc.closed)
}

func TestSession_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := newFakeDocument(articlePage())
	_, err := NewSession(doc, DefaultConfig(), discardLogger()).Run(ctx, newMemStore())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, doc.closed)
}

func TestSession_OutlineOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExtractRegions = false
	doc := newFakeDocument(articlePage())

	stats, err := NewSession(doc, cfg, discardLogger()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, doc.renders)
	assert.Equal(t, 2, stats.Headings)
}

func TestSession_HeadingsSpanPages(t *testing.T) {
	first := testPage(textChars("面向大模型的数据管理", 100, 100, 28))
	second := testPage(append(textChars("引言", 100, 100, 16), textChars("背景", 100, 200, 14)...))

	s := NewSession(newFakeDocument(first, second), DefaultConfig(), discardLogger())
	_, err := s.Run(context.Background(), newMemStore())
	require.NoError(t, err)

	data, err := json.Marshal(s.Outline().Mapping())
	require.NoError(t, err)
	assert.JSONEq(t, `{"面向大模型的数据管理":{"引言":{"背景":{}}}}`, string(data))
}
