package journalcrop

import (
	"image"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// textChars lays s out left to right starting at (x, y), one size-wide cell per rune.
func textChars(s string, x, y, size float64) []Char {
	var chars []Char
	for i, r := range []rune(s) {
		x0 := x + float64(i)*size
		chars = append(chars, Char{
			Text:     r,
			Box:      Box{X0: x0, Y0: y, X1: x0 + size, Y1: y + size},
			FontSize: size,
			FontName: "SimSun",
		})
	}
	return chars
}

type memStore struct {
	mu       sync.Mutex
	saved    map[string]image.Image
	removed  []string
	failSave map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		saved:    make(map[string]image.Image),
		failSave: make(map[string]bool),
	}
}

func (s *memStore) Save(name string, img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave[name] {
		return errors.Errorf("disk full: %s", name)
	}
	s.saved[name] = img
	return nil
}

func (s *memStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, name)
	s.removed = append(s.removed, name)
	return nil
}

func (s *memStore) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for name := range s.saved {
		out = append(out, name)
	}
	return out
}

type fakeDocument struct {
	pages     []*PageContent
	pageErr   map[int]error
	renderErr error
	panicPage int

	renders int
	closed  int
}

func newFakeDocument(pages ...*PageContent) *fakeDocument {
	for i, p := range pages {
		p.Index = i
	}
	return &fakeDocument{pages: pages, panicPage: -1}
}

func (d *fakeDocument) PageCount() int {
	return len(d.pages)
}

func (d *fakeDocument) Page(index int) (*PageContent, error) {
	if index == d.panicPage {
		panic("corrupt page")
	}
	if err := d.pageErr[index]; err != nil {
		return nil, err
	}
	return d.pages[index], nil
}

func (d *fakeDocument) Render(index int, clip Box, zoom float64) (image.Image, error) {
	d.renders++
	if d.renderErr != nil {
		return nil, d.renderErr
	}
	w := int(clip.Width() * zoom)
	h := int(clip.Height() * zoom)
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

func (d *fakeDocument) Close() error {
	d.closed++
	return nil
}

type fakeOpener struct {
	mu   sync.Mutex
	docs map[string]*fakeDocument
	errs map[string]error
}

func (o *fakeOpener) Open(path string) (Document, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.errs[path]; err != nil {
		return nil, err
	}
	doc, ok := o.docs[path]
	if !ok {
		return nil, errors.Errorf("no such file: %s", path)
	}
	return doc, nil
}

// testPage builds an A4-sized page.
func testPage(chars []Char) *PageContent {
	return &PageContent{Width: 595, Height: 842, Chars: chars}
}
