package journalcrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox_Methods(t *testing.T) {
	b := Box{X0: 10, Y0: 20, X1: 110, Y1: 70}

	assert.Equal(t, 100.0, b.Width())
	assert.Equal(t, 50.0, b.Height())
	assert.Equal(t, 5000.0, b.Area())
	assert.False(t, b.IsEmpty())

	inverted := Box{X0: 10, Y0: 10, X1: 5, Y1: 20}
	assert.Equal(t, 0.0, inverted.Area())
	assert.True(t, inverted.IsEmpty())

	u := b.Union(Box{X0: 0, Y0: 30, X1: 50, Y1: 100})
	assert.Equal(t, Box{X0: 0, Y0: 20, X1: 110, Y1: 100}, u)

	assert.Equal(t, Box{X0: 5, Y0: 18, X1: 115, Y1: 72}, b.Expand(5, 2))
	assert.Equal(t, Box{X0: 2, Y0: 2, X1: 4, Y1: 3}, Box{X0: 2.5, Y0: 1.6, X1: 3.5, Y1: 3.4}.Round())
}

func TestBox_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
		want bool
	}{
		{"overlap", Box{0, 0, 100, 100}, Box{50, 50, 120, 120}, true},
		{"contained", Box{0, 0, 100, 100}, Box{10, 10, 20, 20}, true},
		{"shared edge", Box{0, 0, 100, 100}, Box{100, 0, 200, 100}, false},
		{"shared corner", Box{0, 0, 100, 100}, Box{100, 100, 200, 200}, false},
		{"apart", Box{0, 0, 10, 10}, Box{20, 20, 30, 30}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(tt.a))
		})
	}
}

func TestBox_Clamp(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		want Box
	}{
		{"inside", Box{10, 10, 20, 20}, Box{10, 10, 20, 20}},
		{"negative origin", Box{-5, -5, 20, 20}, Box{0, 0, 20, 20}},
		{"beyond page", Box{500, 800, 700, 900}, Box{500, 800, 595, 842}},
		{"entirely outside", Box{600, 850, 700, 900}, Box{595, 842, 595, 842}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.box.Clamp(595, 842)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.X0 >= 0 && got.X0 <= got.X1 && got.X1 <= 595)
			assert.True(t, got.Y0 >= 0 && got.Y0 <= got.Y1 && got.Y1 <= 842)
		})
	}
}
