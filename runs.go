package journalcrop

import "math"

// roundSize rounds a font size the way the layout tooling reports it, halves to even.
func roundSize(size float64) int {
	return int(math.RoundToEven(size))
}

// SuccessiveRuns groups consecutive characters with the same rounded font size
// into runs. Single-character runs are dropped: they are inline markers,
// superscript digits and similar noise that interrupt a line.
// Seq numbers the emitted runs of the page starting at 0.
func SuccessiveRuns(chars []Char, page int) []TextRun {
	var runs []TextRun

	start := 0
	for i := 1; i <= len(chars); i++ {
		if i < len(chars) && roundSize(chars[i].FontSize) == roundSize(chars[start].FontSize) {
			continue
		}
		if i-start > 1 {
			runs = append(runs, buildRun(chars[start:i], page, len(runs)))
		}
		start = i
	}

	return runs
}

func buildRun(chars []Char, page, seq int) TextRun {
	box := chars[0].Box
	for _, c := range chars[1:] {
		box = box.Union(c.Box)
	}
	return TextRun{
		Text:     joinChars(chars),
		Box:      box,
		Size:     roundSize(chars[0].FontSize),
		FontName: chars[0].FontName,
		Page:     page,
		Seq:      seq,
	}
}
