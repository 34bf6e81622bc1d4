package journalcrop

import (
	"sort"
	"strings"

	"github.com/tidwall/rtree"
)

// PageText answers crop-to-box text queries for one page.
type PageText struct {
	width  float64
	height float64
	chars  []Char
	index  rtree.RTreeG[int]
}

// NewPageText indexes the characters of a page.
func NewPageText(chars []Char, width, height float64) *PageText {
	pt := &PageText{
		width:  width,
		height: height,
		chars:  chars,
	}
	for i, c := range chars {
		pt.index.Insert([2]float64{c.Box.X0, c.Box.Y0}, [2]float64{c.Box.X1, c.Box.Y1}, i)
	}
	return pt
}

// CharsIn returns the characters overlapping the box, in extraction order.
// The box is clamped to the page first; a box without width or height holds no text.
func (pt *PageText) CharsIn(box Box) []Char {
	box = box.Clamp(pt.width, pt.height)
	if box.X0 == box.X1 || box.Y0 == box.Y1 {
		return nil
	}

	var hits []int
	pt.index.Search([2]float64{box.X0, box.Y0}, [2]float64{box.X1, box.Y1},
		func(_, _ [2]float64, i int) bool {
			// The tree search is inclusive; keep only positive-area overlap.
			if pt.chars[i].Box.Intersects(box) {
				hits = append(hits, i)
			}
			return true
		})
	if len(hits) == 0 {
		return nil
	}
	sort.Ints(hits)

	out := make([]Char, len(hits))
	for k, i := range hits {
		out[k] = pt.chars[i]
	}
	return out
}

// TextIn returns the concatenated text of the characters overlapping the box.
func (pt *PageText) TextIn(box Box) string {
	return joinChars(pt.CharsIn(box))
}

func joinChars(chars []Char) string {
	var sb strings.Builder
	for _, c := range chars {
		sb.WriteRune(c.Text)
	}
	return sb.String()
}
