package journalcrop

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxCaptionRunes bounds the length of a caption used as a file name.
const maxCaptionRunes = 100

var nameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// normalizeText folds full-width digits and compatibility forms so that
// captions like "图１" match the same pattern as "图1".
func normalizeText(s string) string {
	return norm.NFKC.String(s)
}

// CaptionResolver names regions after the caption printed next to them.
type CaptionResolver struct {
	text       *PageText
	bandHeight float64
}

// NewCaptionResolver creates a resolver probing bands of the given height.
func NewCaptionResolver(text *PageText, bandHeight float64) CaptionResolver {
	return CaptionResolver{text: text, bandHeight: bandHeight}
}

// Resolve returns the caption for a region, or "" when none is found.
// A caption below the region wins over one above it; within a band the
// last matching run wins.
func (r CaptionResolver) Resolve(b Box) string {
	above := Box{X0: b.X0 - captionWiden, Y0: b.Y0 - r.bandHeight, X1: b.X1 + captionWiden, Y1: b.Y0}
	below := Box{X0: b.X0 - captionWiden, Y0: b.Y1, X1: b.X1 + captionWiden, Y1: b.Y1 + r.bandHeight}

	if name := r.lastCaption(below); name != "" {
		return name
	}
	return r.lastCaption(above)
}

func (r CaptionResolver) lastCaption(band Box) string {
	var name string
	for _, run := range SuccessiveRuns(r.text.CharsIn(band), 0) {
		if m, ok := CaptionPatternMatch(normalizeText(run.Text)); ok {
			name = sanitizeName(m)
		}
	}
	return name
}

// sanitizeName makes a caption usable as a file name.
func sanitizeName(caption string) string {
	runes := []rune(caption)
	if len(runes) > maxCaptionRunes {
		runes = runes[:maxCaptionRunes]
	}
	return strings.TrimSpace(nameReplacer.Replace(string(runes)))
}

// UnlabeledName names a region without a caption.
func UnlabeledName(page, ordinal int) string {
	return fmt.Sprintf("page_%d_%d", page, ordinal)
}
