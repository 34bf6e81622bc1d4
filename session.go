package journalcrop

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Document is an open PDF.
type Document interface {
	PageCount() int
	// Page extracts the content of a 0-indexed page.
	Page(index int) (*PageContent, error)
	// Render rasterizes the clip of a page at 72×zoom DPI.
	Render(index int, clip Box, zoom float64) (image.Image, error)
	Close() error
}

// Opener opens documents by path.
type Opener interface {
	Open(path string) (Document, error)
}

// SessionStats counts what a session produced.
type SessionStats struct {
	Pages       int `json:"pages"`
	Saved       int `json:"saved"`
	Replaced    int `json:"replaced"`
	Removed     int `json:"removed"`
	FailedSaves int `json:"failed_saves"`
	Headings    int `json:"headings"`
}

// Session processes one document: regions are cropped page by page and the
// heading outline is built across all pages. A session owns its document.
type Session struct {
	doc Document
	cfg Config
	log logrus.FieldLogger

	filter  RegionFilter
	outline *OutlineBuilder
	set     *PageRegionSet
	stats   SessionStats

	first  *PageContent
	closed bool
}

// NewSession creates a session for an open document.
func NewSession(doc Document, cfg Config, log logrus.FieldLogger) *Session {
	return &Session{
		doc:     doc,
		cfg:     cfg,
		log:     log,
		filter:  NewRegionFilter(cfg),
		outline: NewOutlineBuilder(cfg),
		set:     NewPageRegionSet(0),
	}
}

// Outline returns the outline built so far.
func (s *Session) Outline() *OutlineBuilder {
	return s.outline
}

// FirstPage returns the content of the first page, or nil for an empty document.
// The content is reused by Run.
func (s *Session) FirstPage() (*PageContent, error) {
	if s.doc.PageCount() == 0 {
		return nil, nil
	}
	if s.first == nil {
		page, err := s.doc.Page(0)
		if err != nil {
			return nil, errors.Wrap(err, "failed to extract page 1")
		}
		s.first = page
	}
	return s.first, nil
}

// Run processes every page, saving crops to store, and closes the document.
// Failures to save a single region or place a single heading are logged and
// skipped; failures to read a page abort the document.
func (s *Session) Run(ctx context.Context, store ArtifactStore) (stats SessionStats, err error) {
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for i := 0; i < s.doc.PageCount(); i++ {
		if err := ctx.Err(); err != nil {
			return s.stats, errors.Wrap(err, "processing cancelled")
		}
		if err := s.processPage(i, store); err != nil {
			return s.stats, errors.Wrapf(err, "failed to process page %d", i+1)
		}
		s.stats.Pages++
	}

	s.stats.Headings = s.outline.Headings()
	return s.stats, nil
}

// Close closes the document. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.doc.Close()
}

func (s *Session) page(index int) (*PageContent, error) {
	if index == 0 {
		return s.FirstPage()
	}
	return s.doc.Page(index)
}

func (s *Session) processPage(index int, store ArtifactStore) error {
	page, err := s.page(index)
	if err != nil {
		return err
	}
	text := NewPageText(page.Chars, page.Width, page.Height)
	log := s.log.WithField("page", index+1)

	if s.cfg.ExtractRegions && store != nil {
		s.extractRegions(page, text, store, log)
	}

	if s.cfg.BuildOutline {
		for _, run := range SuccessiveRuns(page.Chars, index) {
			if _, err := s.outline.Add(run); err != nil {
				log.WithError(err).Warn("failed to add heading")
			}
		}
	}
	return nil
}

func (s *Session) extractRegions(page *PageContent, text *PageText, store ArtifactStore, log logrus.FieldLogger) {
	s.set.Reset(page.Index)
	merger := NewMerger(text)
	resolver := NewCaptionResolver(text, s.cfg.CaptionBandHeight)

	for _, source := range page.RegionSources() {
		boxes := merger.SameObjects(s.filter.Filter(source, page, text))
		for _, b := range boxes {
			s.saveRegion(page, b.Clamp(page.Width, page.Height), resolver, store, log)
		}
	}

	removed := Deduplicate(s.set, store, log)
	s.stats.Removed += len(removed)
}

func (s *Session) saveRegion(page *PageContent, b Box, resolver CaptionResolver, store ArtifactStore, log logrus.FieldLogger) {
	if b.IsEmpty() {
		return
	}

	name := resolver.Resolve(b)
	if name == "" {
		name = s.set.NextUnlabeled()
	}
	log = log.WithField("region", name)

	if !s.set.Accepts(name, b) {
		log.Debug("larger region already saved under this name")
		return
	}
	_, replacing := s.set.Get(name)

	img, err := s.doc.Render(page.Index, b, s.cfg.Zoom)
	if err != nil {
		s.stats.FailedSaves++
		log.WithError(err).Warn("failed to render region")
		return
	}
	if err := store.Save(name, img); err != nil {
		s.stats.FailedSaves++
		log.WithError(err).Warn("failed to save region")
		return
	}

	s.set.Put(name, b)
	if replacing {
		s.stats.Replaced++
	} else {
		s.stats.Saved++
	}
	log.Debug("saved region")
}
