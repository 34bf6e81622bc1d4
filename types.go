package journalcrop

// Char represents a single extracted character with its layout metadata.
type Char struct {
	Text     rune
	Box      Box
	FontSize float64
	FontName string
}

// TextRun is a contiguous sequence of characters sharing one rounded font size.
type TextRun struct {
	Text     string
	Box      Box
	Size     int    // Rounded font size
	FontName string // Font of the first character
	Page     int    // 0-indexed page
	Seq      int    // Ordinal among the runs emitted for this page
}

// PageContent holds the primitive facts extracted from one page.
type PageContent struct {
	Index  int // 0-indexed
	Width  float64
	Height float64
	Chars  []Char

	// Region candidates, one slice per source, in extraction order.
	Images []Box
	Rects  []Box
	Tables []Box
}

// RegionSources returns the region candidate lists in processing order.
func (p *PageContent) RegionSources() [][]Box {
	return [][]Box{p.Images, p.Rects, p.Tables}
}
