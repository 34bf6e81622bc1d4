package journalcrop

import (
	"regexp"
	"sort"
)

var (
	// A figure/table marker, 1-3 digits, then up to 100 characters of caption text.
	captionPattern = regexp.MustCompile(`[图表]\d{1,3}.{0,100}`)
	// Just the marker and number, used to tell two captions apart.
	captionLabelPattern = regexp.MustCompile(`[图表]\d{1,3}`)
)

// captionWiden is how far caption probes extend past a region horizontally.
const captionWiden = 5.0

// CaptionPatternMatch returns the caption found in text, if any.
func CaptionPatternMatch(text string) (string, bool) {
	m := captionPattern.FindString(text)
	return m, m != ""
}

// CaptionLabels returns the distinct marker+number labels in text, in order.
func CaptionLabels(text string) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, l := range captionLabelPattern.FindAllString(text, -1) {
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	return labels
}

// Axis selects which extent a merge pass holds fixed.
type Axis int

const (
	// AxisX groups boxes sharing x0,x1 (one column) and merges them vertically.
	AxisX Axis = iota
	// AxisY groups boxes sharing y0,y1 (one row) and merges them horizontally.
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// key returns the fixed extent of a box on this axis.
func (a Axis) key(b Box) [2]float64 {
	if a == AxisX {
		return [2]float64{b.X0, b.X1}
	}
	return [2]float64{b.Y0, b.Y1}
}

// Merger joins region fragments that belong to one figure or table.
type Merger struct {
	text *PageText
}

// NewMerger creates a merger probing captions in the page's text.
func NewMerger(text *PageText) Merger {
	return Merger{text: text}
}

// SameObjects merges fragments along x, then along y.
func (m Merger) SameObjects(boxes []Box) []Box {
	if len(boxes) <= 1 {
		return boxes
	}
	return m.MergeAxis(m.MergeAxis(boxes, AxisX), AxisY)
}

// MergeAxis groups boxes by their rounded fixed extent on the axis and folds
// each group into as few boxes as possible. A fold stops when the union would
// take in a caption label the accumulated box does not already carry; the
// accumulated box is then emitted and a new one starts at the current box.
func (m Merger) MergeAxis(boxes []Box, axis Axis) []Box {
	if len(boxes) == 0 {
		return nil
	}

	rounded := make([]Box, len(boxes))
	for i, b := range boxes {
		rounded[i] = b.Round()
	}
	sort.SliceStable(rounded, func(i, j int) bool {
		ki, kj := axis.key(rounded[i]), axis.key(rounded[j])
		if ki[0] != kj[0] {
			return ki[0] < kj[0]
		}
		return ki[1] < kj[1]
	})

	var merged []Box
	for start := 0; start < len(rounded); {
		end := start + 1
		for end < len(rounded) && axis.key(rounded[end]) == axis.key(rounded[start]) {
			end++
		}
		merged = append(merged, m.foldGroup(rounded[start:end])...)
		start = end
	}

	return merged
}

func (m Merger) foldGroup(group []Box) []Box {
	var out []Box

	acc := group[0]
	accLabels := m.labels(acc)
	for _, b := range group[1:] {
		union := acc.Union(b)
		unionLabels := m.labels(union)
		if hasNewLabel(unionLabels, accLabels) {
			out = append(out, acc)
			acc = b
			accLabels = m.labels(b)
			continue
		}
		acc = union
		accLabels = unionLabels
	}

	return append(out, acc)
}

func (m Merger) labels(b Box) []string {
	return CaptionLabels(normalizeText(m.text.TextIn(b.Expand(captionWiden, 0))))
}

func hasNewLabel(labels, known []string) bool {
	for _, l := range labels {
		found := false
		for _, k := range known {
			if l == k {
				found = true
				break
			}
		}
		if !found {
			return true
		}
	}
	return false
}
