package journalcrop

import (
	"math"
	"regexp"
	"strings"
)

var (
	// A bracketed citation number followed by text, e.g. "[12]张三".
	referencePattern = regexp.MustCompile(`\[\d.*][\p{Han}a-zA-Z]+`)
	blankPattern     = regexp.MustCompile(`\s+`)
)

// RegionFilter rejects region candidates that cannot be figures or tables.
type RegionFilter struct {
	HeaderHeight    float64
	ExcludedNames   []string
	ReferenceMarker string
}

// NewRegionFilter creates a filter from the configuration.
func NewRegionFilter(cfg Config) RegionFilter {
	return RegionFilter{
		HeaderHeight:    cfg.HeaderHeight,
		ExcludedNames:   cfg.ExcludedNames,
		ReferenceMarker: cfg.ReferenceMarker,
	}
}

// Filter returns the boxes that survive every rejection rule, in input order.
func (f RegionFilter) Filter(boxes []Box, page *PageContent, text *PageText) []Box {
	var kept []Box
	for _, b := range boxes {
		if IsDegenerate(b) {
			continue
		}
		if f.IsHeaderBand(b) {
			continue
		}
		if f.IsFooterBand(b, page.Height) {
			continue
		}
		if f.IsExcludedText(text.TextIn(b)) {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

// IsDegenerate reports whether a box has a negative coordinate or collapses
// when its coordinates are floored to multiples of 10.
func IsDegenerate(b Box) bool {
	if b.X0 < 0 || b.Y0 < 0 || b.X1 < 0 || b.Y1 < 0 {
		return true
	}
	return floorTen(b.X0) == floorTen(b.X1) || floorTen(b.Y0) == floorTen(b.Y1)
}

func floorTen(v float64) float64 {
	return math.Floor(v/10) * 10
}

// IsHeaderBand reports whether the box ends inside the header band.
func (f RegionFilter) IsHeaderBand(b Box) bool {
	return b.Y1 <= f.HeaderHeight
}

// IsFooterBand reports whether the box starts inside the footer band.
func (f RegionFilter) IsFooterBand(b Box, pageHeight float64) bool {
	return pageHeight-b.Y0 <= f.HeaderHeight
}

// IsExcludedText reports whether text contains an excluded keyword or
// belongs to the reference section.
func (f RegionFilter) IsExcludedText(text string) bool {
	for _, name := range f.ExcludedNames {
		if name != "" && strings.Contains(text, name) {
			return true
		}
	}
	return f.isReference(text)
}

func (f RegionFilter) isReference(text string) bool {
	if f.ReferenceMarker != "" && strings.Contains(text, f.ReferenceMarker) {
		return true
	}
	return referencePattern.MatchString(blankPattern.ReplaceAllString(text, ""))
}
