package journalcrop

import (
	"math"
	"sort"
)

// Orientation of a ruling edge.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Edge is a horizontal or vertical ruling line in top-left page coordinates.
type Edge struct {
	X0, X1      float64
	Top, Bottom float64
	Orientation Orientation
}

// Length returns the extent of the edge along its orientation.
func (e Edge) Length() float64 {
	if e.Orientation == Horizontal {
		return e.X1 - e.X0
	}
	return e.Bottom - e.Top
}

// position is the coordinate an edge is aligned on.
func (e Edge) position() float64 {
	if e.Orientation == Horizontal {
		return e.Top
	}
	return e.X0
}

// TableSettings tunes ruled-table detection.
type TableSettings struct {
	// SnapTolerance aligns parallel edges closer than this (default: 3)
	SnapTolerance float64 `yaml:"snap_tolerance"`

	// JoinTolerance joins collinear edges separated by a gap up to this (default: 3)
	JoinTolerance float64 `yaml:"join_tolerance"`

	// IntersectionTolerance lets edges that stop short still cross (default: 3)
	IntersectionTolerance float64 `yaml:"intersection_tolerance"`

	// EdgeMinLength drops edges shorter than this after joining (default: 3)
	EdgeMinLength float64 `yaml:"edge_min_length"`
}

// DefaultTableSettings returns the detection settings used for journal pages.
func DefaultTableSettings() TableSettings {
	return TableSettings{
		SnapTolerance:         3.0,
		JoinTolerance:         3.0,
		IntersectionTolerance: 3.0,
		EdgeMinLength:         3.0,
	}
}

type point struct {
	X, Y float64
}

type crossing struct {
	v, h []Edge
}

// FindTables returns the bounding boxes of ruled tables formed by edges.
// A table is a group of at least two cells sharing corners.
func FindTables(edges []Edge, settings TableSettings) []Box {
	edges = mergeEdges(edges, settings)
	edges = filterEdgesByLength(edges, settings.EdgeMinLength)

	cells := intersectionsToCells(findIntersections(edges, settings.IntersectionTolerance))

	var boxes []Box
	for _, table := range cellsToTables(cells) {
		box := table[0]
		for _, cell := range table[1:] {
			box = box.Union(cell)
		}
		boxes = append(boxes, box)
	}
	return boxes
}

// mergeEdges snaps parallel edges together, then joins collinear ones.
func mergeEdges(edges []Edge, settings TableSettings) []Edge {
	var h, v []Edge
	for _, e := range edges {
		if e.Orientation == Horizontal {
			h = append(h, e)
		} else {
			v = append(v, e)
		}
	}

	if settings.SnapTolerance > 0 {
		h = snapEdges(h, settings.SnapTolerance)
		v = snapEdges(v, settings.SnapTolerance)
	}
	return append(joinEdges(h, settings.JoinTolerance), joinEdges(v, settings.JoinTolerance)...)
}

// snapEdges moves edges whose positions lie within tolerance of their
// neighbours onto the cluster mean. All edges share one orientation.
func snapEdges(edges []Edge, tolerance float64) []Edge {
	if len(edges) == 0 {
		return edges
	}

	out := make([]Edge, len(edges))
	copy(out, edges)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].position() < out[j].position()
	})

	start := 0
	for i := 1; i <= len(out); i++ {
		if i < len(out) && out[i].position()-out[i-1].position() <= tolerance {
			continue
		}

		sum := 0.0
		for _, e := range out[start:i] {
			sum += e.position()
		}
		mean := sum / float64(i-start)
		for k := start; k < i; k++ {
			e := &out[k]
			if e.Orientation == Horizontal {
				e.Bottom, e.Top = mean+(e.Bottom-e.Top), mean
			} else {
				e.X1, e.X0 = mean+(e.X1-e.X0), mean
			}
		}
		start = i
	}
	return out
}

// joinEdges joins edges on the same line whose gap is within tolerance.
// All edges share one orientation.
func joinEdges(edges []Edge, tolerance float64) []Edge {
	if len(edges) == 0 {
		return nil
	}

	lo := func(e Edge) float64 {
		if e.Orientation == Horizontal {
			return e.X0
		}
		return e.Top
	}

	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].position(), sorted[j].position()
		if pi != pj {
			return pi < pj
		}
		return lo(sorted[i]) < lo(sorted[j])
	})

	joined := []Edge{sorted[0]}
	for _, e := range sorted[1:] {
		last := &joined[len(joined)-1]
		if e.position() != last.position() {
			joined = append(joined, e)
			continue
		}

		if e.Orientation == Horizontal {
			if e.X0 > last.X1+tolerance {
				joined = append(joined, e)
				continue
			}
			last.X1 = math.Max(last.X1, e.X1)
		} else {
			if e.Top > last.Bottom+tolerance {
				joined = append(joined, e)
				continue
			}
			last.Bottom = math.Max(last.Bottom, e.Bottom)
		}
	}
	return joined
}

func filterEdgesByLength(edges []Edge, minLength float64) []Edge {
	if minLength <= 0 {
		return edges
	}
	out := edges[:0:0]
	for _, e := range edges {
		if e.Length() >= minLength {
			out = append(out, e)
		}
	}
	return out
}

// findIntersections records every point where a vertical edge crosses a
// horizontal one, with the edges meeting there.
func findIntersections(edges []Edge, tolerance float64) map[point]*crossing {
	var h, v []Edge
	for _, e := range edges {
		if e.Orientation == Horizontal {
			h = append(h, e)
		} else {
			v = append(v, e)
		}
	}

	out := make(map[point]*crossing)
	for _, ve := range v {
		for _, he := range h {
			if ve.Top > he.Top+tolerance || ve.Bottom < he.Top-tolerance ||
				ve.X0 < he.X0-tolerance || ve.X0 > he.X1+tolerance {
				continue
			}

			p := point{X: ve.X0, Y: he.Top}
			c, ok := out[p]
			if !ok {
				c = &crossing{}
				out[p] = c
			}
			c.v = append(c.v, ve)
			c.h = append(c.h, he)
		}
	}
	return out
}

// connected reports whether one edge passes through both points.
func connected(crossings map[point]*crossing, a, b point) bool {
	ca, cb := crossings[a], crossings[b]
	if ca == nil || cb == nil {
		return false
	}

	var ea, eb []Edge
	switch {
	case a.X == b.X:
		ea, eb = ca.v, cb.v
	case a.Y == b.Y:
		ea, eb = ca.h, cb.h
	default:
		return false
	}
	for _, x := range ea {
		for _, y := range eb {
			if x == y {
				return true
			}
		}
	}
	return false
}

// intersectionsToCells builds the minimal rectangles whose four corners are
// intersections joined by edges.
func intersectionsToCells(crossings map[point]*crossing) []Box {
	points := make([]point, 0, len(crossings))
	for p := range crossings {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Y == points[j].Y {
			return points[i].X < points[j].X
		}
		return points[i].Y < points[j].Y
	})

	var cells []Box
	for i, p := range points {
		var right, below *point
		for j := i + 1; j < len(points); j++ {
			q := &points[j]
			if q.X == p.X && q.Y > p.Y && (below == nil || q.Y < below.Y) {
				below = q
			}
			if q.Y == p.Y && q.X > p.X && (right == nil || q.X < right.X) {
				right = q
			}
		}
		if right == nil || below == nil {
			continue
		}

		corner := point{X: right.X, Y: below.Y}
		if connected(crossings, p, *right) && connected(crossings, p, *below) &&
			connected(crossings, corner, *right) && connected(crossings, corner, *below) {
			cells = append(cells, Box{X0: p.X, Y0: p.Y, X1: corner.X, Y1: corner.Y})
		}
	}
	return cells
}

func corners(b Box) [4]point {
	return [4]point{{b.X0, b.Y0}, {b.X0, b.Y1}, {b.X1, b.Y0}, {b.X1, b.Y1}}
}

// cellsToTables groups cells that share corners. Groups of one cell are dropped.
func cellsToTables(cells []Box) [][]Box {
	remaining := make([]Box, len(cells))
	copy(remaining, cells)

	var tables [][]Box
	for len(remaining) > 0 {
		table := []Box{remaining[0]}
		seen := make(map[point]bool)
		for _, c := range corners(remaining[0]) {
			seen[c] = true
		}
		remaining = remaining[1:]

		for grew := true; grew; {
			grew = false
			rest := remaining[:0]
			for _, cell := range remaining {
				shared := false
				for _, c := range corners(cell) {
					if seen[c] {
						shared = true
						break
					}
				}
				if !shared {
					rest = append(rest, cell)
					continue
				}
				table = append(table, cell)
				for _, c := range corners(cell) {
					seen[c] = true
				}
				grew = true
			}
			remaining = rest
		}

		if len(table) > 1 {
			tables = append(tables, table)
		}
	}
	return tables
}

// pathToEdge turns a thin path bounding box into an edge.
func pathToEdge(b Box) (Edge, bool) {
	w, h := b.X1-b.X0, b.Y1-b.Y0
	switch {
	case h < 2 && w > 1:
		return Edge{X0: b.X0, X1: b.X1, Top: b.Y0, Bottom: b.Y0, Orientation: Horizontal}, true
	case w < 2 && h > 1:
		return Edge{X0: b.X0, X1: b.X0, Top: b.Y0, Bottom: b.Y1, Orientation: Vertical}, true
	}
	return Edge{}, false
}

// boundsToEdges returns the four sides of a rectangle.
func boundsToEdges(b Box) []Edge {
	return []Edge{
		{X0: b.X0, X1: b.X1, Top: b.Y0, Bottom: b.Y0, Orientation: Horizontal},
		{X0: b.X0, X1: b.X1, Top: b.Y1, Bottom: b.Y1, Orientation: Horizontal},
		{X0: b.X0, X1: b.X0, Top: b.Y0, Bottom: b.Y1, Orientation: Vertical},
		{X0: b.X1, X1: b.X1, Top: b.Y0, Bottom: b.Y1, Orientation: Vertical},
	}
}

// isPageBorder reports edges that frame the page rather than a table.
func isPageBorder(e Edge, pageWidth, pageHeight float64) bool {
	const margin = 20.0
	const span = 0.9

	if e.Orientation == Horizontal {
		return e.Top < margin || e.Top > pageHeight-margin || e.Length() > pageWidth*span
	}
	return e.X0 < margin || e.X0 > pageWidth-margin || e.Length() > pageHeight*span
}
