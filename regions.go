package journalcrop

// Region is a saved figure or table candidate.
type Region struct {
	Name string
	Box  Box
}

// PageRegionSet tracks the regions saved on the page being processed.
// It lives for one page and is reset after the page's dedup pass.
type PageRegionSet struct {
	page    int
	order   []string
	boxes   map[string]Box
	ordinal int
}

// NewPageRegionSet creates an empty set for a page.
func NewPageRegionSet(page int) *PageRegionSet {
	return &PageRegionSet{
		page:  page,
		boxes: make(map[string]Box),
	}
}

// Page returns the 0-indexed page the set belongs to.
func (s *PageRegionSet) Page() int {
	return s.page
}

// Len returns the number of regions recorded.
func (s *PageRegionSet) Len() int {
	return len(s.order)
}

// Get returns the box recorded under name.
func (s *PageRegionSet) Get(name string) (Box, bool) {
	b, ok := s.boxes[name]
	return b, ok
}

// Accepts reports whether a region resolved to name should be saved.
// A name already used on the page is only taken over by a region at least
// as large as the one holding it.
func (s *PageRegionSet) Accepts(name string, box Box) bool {
	existing, ok := s.boxes[name]
	if !ok {
		return true
	}
	return box.Area() >= existing.Area()
}

// NextUnlabeled returns the name for the next region saved without a caption.
func (s *PageRegionSet) NextUnlabeled() string {
	return UnlabeledName(s.page, s.ordinal)
}

// Put records a saved region. Replacing an existing name keeps its position.
func (s *PageRegionSet) Put(name string, box Box) {
	if _, ok := s.boxes[name]; !ok {
		s.order = append(s.order, name)
	}
	s.boxes[name] = box
	s.ordinal++
}

// Delete forgets a region.
func (s *PageRegionSet) Delete(name string) {
	if _, ok := s.boxes[name]; !ok {
		return
	}
	delete(s.boxes, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Regions returns the recorded regions in insertion order.
func (s *PageRegionSet) Regions() []Region {
	out := make([]Region, len(s.order))
	for i, name := range s.order {
		out[i] = Region{Name: name, Box: s.boxes[name]}
	}
	return out
}

// Reset clears the set and moves it to another page.
func (s *PageRegionSet) Reset(page int) {
	s.page = page
	s.order = nil
	s.boxes = make(map[string]Box)
	s.ordinal = 0
}
