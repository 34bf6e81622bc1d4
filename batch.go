package journalcrop

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/HinsChueng/journalcrop/tree"
)

// watermarkPrefix marks articles whose first page carries unmappable glyphs.
const watermarkPrefix = "水印-"

var articlePattern = regexp.MustCompile(`(第\d+期\s.*?)\.(?i:pdf)$`)

// ListPDFs returns the PDF files directly inside dir, sorted by name.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isPDF(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// ArticleName derives the output name of a document from its file name,
// e.g. "2023年第5期 面向大模型的数据管理.pdf" gives "第5期 面向大模型的数据管理".
// A file name without an issue marker is used without its extension; an
// empty name falls back to the title text of the first page.
func ArticleName(path string, first *PageContent, sizes HeadingSizes) string {
	base := filepath.Base(path)

	var name string
	if m := articlePattern.FindStringSubmatch(base); m != nil {
		name = m[1]
	} else {
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	name = strings.TrimSpace(name)

	if name == "" && first != nil {
		var title []Char
		for _, c := range first.Chars {
			if roundSize(c.FontSize) >= sizes.Title {
				title = append(title, c)
			}
		}
		name = joinChars(title)
	}
	name = sanitizeName(name)
	if name == "" {
		name = "untitled"
	}

	if first != nil && hasUnmappedGlyphs(first.Chars) {
		name = watermarkPrefix + name
	}
	return name
}

func hasUnmappedGlyphs(chars []Char) bool {
	for _, c := range chars {
		if c.Text == '\uFFFD' {
			return true
		}
	}
	return false
}

// DocumentResult is the outcome of processing one document.
type DocumentResult struct {
	Path     string
	Name     string
	Stats    SessionStats
	Outline  *tree.Mapping
	Duration time.Duration
	Err      error
}

// Batch processes documents with a fixed number of workers.
type Batch struct {
	cfg    Config
	opener Opener
	log    logrus.FieldLogger
}

// NewBatch creates a batch driver.
func NewBatch(cfg Config, opener Opener, log logrus.FieldLogger) *Batch {
	return &Batch{cfg: cfg, opener: opener, log: log}
}

// Run processes paths and returns one result per path, in input order.
// A failing document never stops the others. Once ctx is cancelled no
// further documents are started; their results carry the context error.
func (b *Batch) Run(ctx context.Context, paths []string) []DocumentResult {
	results := make([]DocumentResult, len(paths))

	workers := b.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = b.ProcessFile(ctx, paths[i])
			}
		}()
	}

	next := 0
dispatch:
	for ; next < len(paths); next++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(paths); i++ {
		results[i] = DocumentResult{
			Path: paths[i],
			Err:  errors.Wrap(ctx.Err(), "not started"),
		}
	}
	return results
}

// ProcessFile processes a single document. Panics are recovered into the
// result's error.
func (b *Batch) ProcessFile(ctx context.Context, path string) (res DocumentResult) {
	res.Path = path
	log := b.log.WithField("path", path)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res.Err = errors.Errorf("panic while processing document: %v", r)
		}
		res.Duration = time.Since(start)
		if res.Err != nil {
			log.Errorf("failed to process document: %+v", res.Err)
			return
		}
		log.WithFields(logrus.Fields{
			"article":  res.Name,
			"pages":    res.Stats.Pages,
			"saved":    res.Stats.Saved,
			"removed":  res.Stats.Removed,
			"headings": res.Stats.Headings,
			"duration": res.Duration.Round(time.Millisecond),
		}).Info("processed document")
	}()

	doc, err := b.opener.Open(path)
	if err != nil {
		res.Err = errors.Wrapf(err, "failed to open %s", path)
		return res
	}
	session := NewSession(doc, b.cfg, log)
	defer session.Close()

	first, err := session.FirstPage()
	if err != nil {
		res.Err = err
		return res
	}
	res.Name = ArticleName(path, first, b.cfg.Headings)
	log = log.WithField("article", res.Name)
	session.log = log

	var store ArtifactStore
	if b.cfg.ExtractRegions {
		store = NewDirStore(filepath.Join(b.cfg.ImageDir, res.Name))
	}

	res.Stats, err = session.Run(ctx, store)
	if err != nil {
		res.Err = err
		return res
	}

	if b.cfg.BuildOutline {
		res.Outline = session.Outline().Mapping()
		if b.cfg.ResultDir != "" {
			if err := WriteOutline(filepath.Join(b.cfg.ResultDir, res.Name+".json"), res.Outline); err != nil {
				res.Err = err
			}
		}
	}
	return res
}

// WriteOutline writes an outline mapping as indented JSON.
func WriteOutline(path string, m *tree.Mapping) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create result directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create outline file")
	}
	if err := EncodeOutline(f, m); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to close outline file")
}

// EncodeOutline writes an outline mapping as indented JSON with CJK text unescaped.
func EncodeOutline(w io.Writer, m *tree.Mapping) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return errors.Wrap(enc.Encode(m), "failed to encode outline")
}
