package journalcrop

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headingRun(text string, size, seq int) TextRun {
	return TextRun{
		Text: text,
		Size: size,
		Seq:  seq,
		Box:  Box{X0: 50, Y0: 200, X1: 300, Y1: 220},
	}
}

func buildOutline(t *testing.T, cfg Config, runs ...TextRun) *OutlineBuilder {
	t.Helper()
	b := NewOutlineBuilder(cfg)
	for _, r := range runs {
		_, err := b.Add(r)
		require.NoError(t, err)
	}
	return b
}

func outlineJSON(t *testing.T, b *OutlineBuilder) string {
	t.Helper()
	data, err := json.Marshal(b.Mapping())
	require.NoError(t, err)
	return string(data)
}

func TestOutline_ContinuationMerges(t *testing.T) {
	b := buildOutline(t, DefaultConfig(),
		headingRun("一、", 16, 0),
		headingRun("引言", 16, 1),
	)

	children := b.Tree().Root().Children()
	require.Len(t, children, 1)
	assert.Equal(t, "一、引言", children[0].Value.Text)
	assert.Equal(t, LevelPrimary, children[0].Value.Level)
}

func TestOutline_SameSizeNotAdjacentIsSibling(t *testing.T) {
	b := buildOutline(t, DefaultConfig(),
		headingRun("引言", 16, 0),
		headingRun("相关工作", 16, 3),
	)

	assert.JSONEq(t, `{"":{"引言":{},"相关工作":{}}}`, outlineJSON(t, b))
}

func TestOutline_SecondaryAfterThirdIsSibling(t *testing.T) {
	b := buildOutline(t, DefaultConfig(),
		headingRun("引言", 16, 0),
		headingRun("背景", 14, 1),
		headingRun("动机", 11, 2),
		headingRun("贡献", 14, 3),
	)

	root := b.Tree().Root()
	require.Len(t, root.Children(), 1)
	primary := root.Children()[0]
	require.Len(t, primary.Children(), 2)
	assert.Equal(t, "背景", primary.Children()[0].Value.Text)
	assert.Equal(t, "贡献", primary.Children()[1].Value.Text)
	require.Len(t, primary.Children()[0].Children(), 1)
	assert.Equal(t, "动机", primary.Children()[0].Children()[0].Value.Text)
	assert.Empty(t, primary.Children()[1].Children())
}

func TestOutline_Title(t *testing.T) {
	t.Run("continuation", func(t *testing.T) {
		b := buildOutline(t, DefaultConfig(),
			headingRun("面向大模型的", 28, 0),
			headingRun("数据管理", 28, 1),
			headingRun("引言", 16, 2),
		)
		assert.JSONEq(t, `{"面向大模型的数据管理":{"引言":{}}}`, outlineJSON(t, b))
		assert.Equal(t, LevelTitle, b.Tree().Root().Value.Level)
	})

	t.Run("larger size replaces", func(t *testing.T) {
		b := buildOutline(t, DefaultConfig(),
			headingRun("专题", 32, 0),
			headingRun("数据管理", 28, 1),
		)
		assert.Equal(t, "数据管理", b.Tree().Root().Value.Text)
		assert.Equal(t, 28, b.Tree().Root().Value.Size)
	})

	t.Run("secondary under title gets a placeholder", func(t *testing.T) {
		b := buildOutline(t, DefaultConfig(),
			headingRun("标题", 28, 0),
			headingRun("背景", 14, 1),
		)
		assert.JSONEq(t, `{"标题":{"":{"背景":{}}}}`, outlineJSON(t, b))
		assert.True(t, b.Tree().Root().Children()[0].Value.IsPlaceholder())
	})
}

func TestOutline_FirstRunBuildsChain(t *testing.T) {
	b := buildOutline(t, DefaultConfig(), headingRun("动机", 11, 0))

	assert.JSONEq(t, `{"":{"":{"":{"动机":{}}}}}`, outlineJSON(t, b))

	primary := b.Tree().Root().Children()[0]
	assert.Equal(t, LevelPrimary, primary.Value.Level)
	assert.Equal(t, LevelSecondary, primary.Children()[0].Value.Level)
	assert.Equal(t, 1, b.Headings())
}

func TestOutline_AscendAbsorbsPlaceholder(t *testing.T) {
	b := buildOutline(t, DefaultConfig(),
		headingRun("动机", 11, 0),
		headingRun("背景", 14, 2),
		headingRun("引言", 16, 4),
	)

	assert.JSONEq(t, `{"":{"引言":{"背景":{"动机":{}}}}}`, outlineJSON(t, b))
	assert.Equal(t, 3, b.Headings())

	primary := b.Tree().Root().Children()[0]
	assert.Equal(t, LevelPrimary, primary.Value.Level)
	assert.Equal(t, 16, primary.Value.Size)
	assert.False(t, primary.Value.IsPlaceholder())
}

func TestOutline_AscendToRoot(t *testing.T) {
	b := buildOutline(t, DefaultConfig(),
		headingRun("标题", 28, 0),
		headingRun("引言", 16, 1),
		headingRun("背景", 14, 2),
		headingRun("动机", 11, 3),
		headingRun("方法", 16, 5),
	)

	assert.JSONEq(t, `{"标题":{"引言":{"背景":{"动机":{}}},"方法":{}}}`, outlineJSON(t, b))
}

func TestOutline_DescendIntoSeenLevel(t *testing.T) {
	b := buildOutline(t, DefaultConfig(),
		headingRun("引言", 16, 0),
		headingRun("背景", 14, 1),
		headingRun("动机", 11, 2),
		headingRun("方法", 16, 4),
		headingRun("细节", 11, 6),
	)

	// Third level seen before, but the new primary has no children to follow.
	assert.JSONEq(t, `{"":{"引言":{"背景":{"动机":{}}},"方法":{"":{"细节":{}}}}}`, outlineJSON(t, b))
}

func TestOutline_IgnoredRuns(t *testing.T) {
	t.Run("header band", func(t *testing.T) {
		b := NewOutlineBuilder(DefaultConfig())
		run := headingRun("中国计算机学会通讯", 16, 0)
		run.Box = Box{X0: 50, Y0: 30, X1: 300, Y1: 50}

		ok, err := b.Add(run)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, b.Tree().Root().Children())
	})

	t.Run("unknown size", func(t *testing.T) {
		b := NewOutlineBuilder(DefaultConfig())
		ok, err := b.Add(headingRun("正文", 10, 0))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, b.Tree().Root().Children())
	})

	t.Run("unknown size does not advance the sequence", func(t *testing.T) {
		b := buildOutline(t, DefaultConfig(),
			headingRun("引言", 16, 0),
			headingRun("正文", 10, 1),
			headingRun("相关工作", 16, 2),
		)
		assert.JSONEq(t, `{"":{"引言":{},"相关工作":{}}}`, outlineJSON(t, b))
	})

	t.Run("third level disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.KeepThirdLevel = false
		b := buildOutline(t, cfg,
			headingRun("引言", 16, 0),
			headingRun("动机", 11, 1),
		)
		assert.JSONEq(t, `{"":{"引言":{}}}`, outlineJSON(t, b))
	})
}

func TestOutline_EmptyDocument(t *testing.T) {
	b := NewOutlineBuilder(DefaultConfig())
	assert.JSONEq(t, `{"":{}}`, outlineJSON(t, b))
	assert.Zero(t, b.Headings())
}
