package journalcrop

import "math"

// Box is an axis-aligned rectangle in page coordinates.
// The origin is the top-left corner of the page, x grows right and y grows down.
type Box struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the box.
func (b Box) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the box.
func (b Box) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area of the box. Inverted extents count as zero.
func (b Box) Area() float64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Union returns the bounding box of b and other.
func (b Box) Union(other Box) Box {
	return Box{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Intersects reports whether the interiors of b and other overlap.
// Boxes that only share an edge do not intersect.
func (b Box) Intersects(other Box) bool {
	return math.Max(b.X0, other.X0) < math.Min(b.X1, other.X1) &&
		math.Max(b.Y0, other.Y0) < math.Min(b.Y1, other.Y1)
}

// Clamp bounds the box to the page extents [0,width]x[0,height].
func (b Box) Clamp(width, height float64) Box {
	c := Box{
		X0: clamp(b.X0, 0, width),
		Y0: clamp(b.Y0, 0, height),
		X1: clamp(b.X1, 0, width),
		Y1: clamp(b.Y1, 0, height),
	}
	if c.X1 < c.X0 {
		c.X1 = c.X0
	}
	if c.Y1 < c.Y0 {
		c.Y1 = c.Y0
	}
	return c
}

// Expand grows the box by dx on the left and right and dy on the top and bottom.
func (b Box) Expand(dx, dy float64) Box {
	return Box{
		X0: b.X0 - dx,
		Y0: b.Y0 - dy,
		X1: b.X1 + dx,
		Y1: b.Y1 + dy,
	}
}

// Round rounds every coordinate to the nearest integer, halves to even.
func (b Box) Round() Box {
	return Box{
		X0: math.RoundToEven(b.X0),
		Y0: math.RoundToEven(b.Y0),
		X1: math.RoundToEven(b.X1),
		Y1: math.RoundToEven(b.Y1),
	}
}

// IsEmpty reports whether the box has no width or no height.
func (b Box) IsEmpty() bool {
	return b.X0 >= b.X1 || b.Y0 >= b.Y1
}

// clamp restricts a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
