package journalcrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		want bool
	}{
		{"regular", Box{100, 100, 300, 250}, false},
		{"negative", Box{-1, 100, 300, 250}, true},
		{"narrow", Box{101, 100, 108, 250}, true},
		{"flat", Box{100, 200, 300, 205}, true},
		{"straddles a multiple of ten", Box{108, 100, 112, 250}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDegenerate(tt.box))
		})
	}
}

func TestRegionFilter_Bands(t *testing.T) {
	f := NewRegionFilter(DefaultConfig())

	assert.True(t, f.IsHeaderBand(Box{100, 10, 300, 60}))
	assert.False(t, f.IsHeaderBand(Box{100, 10, 300, 61}))
	assert.True(t, f.IsFooterBand(Box{100, 782, 300, 830}, 842))
	assert.False(t, f.IsFooterBand(Box{100, 700, 300, 830}, 842))
}

func TestRegionFilter_ExcludedText(t *testing.T) {
	f := NewRegionFilter(DefaultConfig())

	tests := []struct {
		text string
		want bool
	}{
		{"图1 系统架构", false},
		{"参考文献", true},
		{"CCF 会员", true},
		{"特邀专栏作家 张三", true},
		{"[1] 张三, 李四", true},
		{"[12]Zhang San", true},
		{"数组 a[i] 的下标", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsExcludedText(tt.text))
		})
	}
}

func TestRegionFilter_Filter(t *testing.T) {
	var chars []Char
	chars = append(chars, textChars("参考文献", 120, 420, 10)...)
	chars = append(chars, textChars("图2 结果", 120, 320, 10)...)
	page := testPage(chars)
	text := NewPageText(page.Chars, page.Width, page.Height)

	references := Box{100, 400, 300, 500}
	figure := Box{100, 200, 300, 340}
	header := Box{100, 10, 300, 50}
	footer := Box{100, 800, 300, 830}
	narrow := Box{100, 300, 105, 600}

	kept := NewRegionFilter(DefaultConfig()).Filter(
		[]Box{references, figure, header, footer, narrow}, page, text)

	assert.Equal(t, []Box{figure}, kept)
}

func TestRegionFilter_ReferenceMarkerAnywhere(t *testing.T) {
	// The marker rejects a region regardless of where it sits on the page.
	for _, y := range []float64{100, 400, 700} {
		page := testPage(textChars("参考文献", 120, y+10, 10))
		text := NewPageText(page.Chars, page.Width, page.Height)
		box := Box{100, y, 300, y + 80}

		assert.Empty(t, NewRegionFilter(DefaultConfig()).Filter([]Box{box}, page, text))
	}
}
