package journalcrop

import (
	"image"
	"math"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// ErrEmptyClip is returned when a render clip covers no pixels.
var ErrEmptyClip = errors.New("empty clip")

// PDFiumOpener opens documents on instances taken from a pdfium pool.
type PDFiumOpener struct {
	pool    pdfium.Pool
	timeout time.Duration
	tables  TableSettings
}

// NewPDFiumOpener starts a webassembly pdfium pool sized for workers
// concurrent documents.
func NewPDFiumOpener(workers int, tables TableSettings) (*PDFiumOpener, error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  workers,
		MaxTotal: workers,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialise pdfium")
	}
	return &PDFiumOpener{pool: pool, timeout: time.Second * 30, tables: tables}, nil
}

// Open opens a PDF file. The instance is held until the document is closed.
func (o *PDFiumOpener) Open(path string) (Document, error) {
	instance, err := o.pool.GetInstance(o.timeout)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pdfium instance")
	}

	doc, err := instance.OpenDocument(&requests.OpenDocument{
		FilePath: &path,
	})
	if err != nil {
		instance.Close()
		return nil, errors.Wrap(err, "failed to open PDF document")
	}

	count, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
		instance.Close()
		return nil, errors.Wrap(err, "failed to get page count")
	}

	return &pdfiumDocument{
		instance: instance,
		doc:      doc.Document,
		pages:    count.PageCount,
		tables:   o.tables,
		rendered: -1,
	}, nil
}

// Close shuts the pool down.
func (o *PDFiumOpener) Close() error {
	return errors.Wrap(o.pool.Close(), "failed to close pdfium pool")
}

type pdfiumDocument struct {
	instance pdfium.Pdfium
	doc      references.FPDF_DOCUMENT
	pages    int
	tables   TableSettings

	// Last rendered page, reused for every region on it.
	rendered int
	zoom     float64
	ratio    float64
	raster   *image.RGBA
}

func (d *pdfiumDocument) PageCount() int {
	return d.pages
}

func (d *pdfiumDocument) Page(index int) (*PageContent, error) {
	page, err := d.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: d.doc,
		Index:    index,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load page")
	}
	defer d.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: page.Page,
	})

	content, err := extractPage(d.instance, page.Page, index, d.tables)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract page content")
	}
	return content, nil
}

// Render rasterizes the page at 72×zoom DPI and returns the clip.
func (d *pdfiumDocument) Render(index int, clip Box, zoom float64) (image.Image, error) {
	if err := d.renderPage(index, zoom); err != nil {
		return nil, err
	}

	rect := image.Rect(
		int(math.Floor(clip.X0*d.ratio)),
		int(math.Floor(clip.Y0*d.ratio)),
		int(math.Ceil(clip.X1*d.ratio)),
		int(math.Ceil(clip.Y1*d.ratio)),
	).Intersect(d.raster.Bounds())
	if rect.Empty() {
		return nil, errors.Wrapf(ErrEmptyClip, "page %d clip %v", index, clip)
	}

	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), d.raster, rect.Min, draw.Src)
	return out, nil
}

func (d *pdfiumDocument) renderPage(index int, zoom float64) error {
	if d.raster != nil && d.rendered == index && d.zoom == zoom {
		return nil
	}

	resp, err := d.instance.RenderPageInDPI(&requests.RenderPageInDPI{
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{
				Document: d.doc,
				Index:    index,
			},
		},
		DPI: int(math.Round(72 * zoom)),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to render page %d", index)
	}
	defer resp.Cleanup()

	// The render buffer is released by Cleanup; keep a copy.
	src := resp.Result.Image
	raster := image.NewRGBA(src.Bounds())
	draw.Draw(raster, raster.Bounds(), src, src.Bounds().Min, draw.Src)

	d.raster = raster
	d.ratio = resp.Result.PointToPixelRatio
	d.rendered = index
	d.zoom = zoom
	return nil
}

func (d *pdfiumDocument) Close() error {
	_, err := d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: d.doc,
	})
	d.raster = nil
	if cerr := d.instance.Close(); err == nil {
		err = cerr
	}
	return errors.Wrap(err, "failed to close PDF document")
}
