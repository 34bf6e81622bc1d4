package journalcrop

import (
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// extractPage reads the characters and graphic objects of a loaded page.
func extractPage(instance pdfium.Pdfium, page references.FPDF_PAGE, index int, tables TableSettings) (*PageContent, error) {
	width, err := instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page width")
	}
	height, err := instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page height")
	}

	content := &PageContent{
		Index:  index,
		Width:  float64(width.PageWidth),
		Height: float64(height.PageHeight),
	}

	content.Chars, err = extractChars(instance, page, content.Height)
	if err != nil {
		return nil, err
	}

	var edges []Edge
	content.Images, content.Rects, edges, err = extractObjects(instance, page, content.Width, content.Height)
	if err != nil {
		return nil, err
	}
	content.Tables = FindTables(edges, tables)

	return content, nil
}

// extractChars returns the page characters in extraction order.
func extractChars(instance pdfium.Pdfium, page references.FPDF_PAGE, pageHeight float64) ([]Char, error) {
	textPage, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	count, err := instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}

	chars := make([]Char, 0, count.Count)
	for i := range count.Count {
		unicode, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage.TextPage,
			Index:    i,
		})
		if err != nil || unicode.Unicode == 0 {
			continue
		}

		charBox, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage.TextPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		c := Char{
			Text: rune(unicode.Unicode),
			Box: Box{
				X0: charBox.Left,
				Y0: pageHeight - charBox.Top,
				X1: charBox.Right,
				Y1: pageHeight - charBox.Bottom,
			},
		}

		if size, err := instance.FPDFText_GetFontSize(&requests.FPDFText_GetFontSize{
			TextPage: textPage.TextPage,
			Index:    i,
		}); err == nil {
			c.FontSize = size.FontSize
		}
		if info, err := instance.FPDFText_GetFontInfo(&requests.FPDFText_GetFontInfo{
			TextPage: textPage.TextPage,
			Index:    i,
		}); err == nil {
			c.FontName = info.FontName
		}

		chars = append(chars, c)
	}
	return chars, nil
}

// extractObjects walks the page objects. Image objects are returned as image
// boxes, closed paths with a real area as rectangle boxes, and thin or
// rectangular paths additionally as ruling edges for table detection.
func extractObjects(instance pdfium.Pdfium, page references.FPDF_PAGE, pageWidth, pageHeight float64) (images, rects []Box, edges []Edge, err error) {
	count, err := instance.FPDFPage_CountObjects(&requests.FPDFPage_CountObjects{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to count page objects")
	}

	for i := 0; i < count.Count; i++ {
		obj, err := instance.FPDFPage_GetObject(&requests.FPDFPage_GetObject{
			Page:  requests.Page{ByReference: &page},
			Index: i,
		})
		if err != nil {
			continue
		}

		objType, err := instance.FPDFPageObj_GetType(&requests.FPDFPageObj_GetType{
			PageObject: obj.PageObject,
		})
		if err != nil {
			continue
		}
		if objType.Type != enums.FPDF_PAGEOBJ_IMAGE && objType.Type != enums.FPDF_PAGEOBJ_PATH {
			continue
		}

		bounds, err := instance.FPDFPageObj_GetBounds(&requests.FPDFPageObj_GetBounds{
			PageObject: obj.PageObject,
		})
		if err != nil {
			continue
		}
		box := Box{
			X0: float64(bounds.Left),
			Y0: pageHeight - float64(bounds.Top),
			X1: float64(bounds.Right),
			Y1: pageHeight - float64(bounds.Bottom),
		}

		if objType.Type == enums.FPDF_PAGEOBJ_IMAGE {
			images = append(images, box)
			continue
		}

		segments, err := instance.FPDFPath_CountSegments(&requests.FPDFPath_CountSegments{
			PageObject: obj.PageObject,
		})
		if err != nil || segments.Count < 2 {
			continue
		}

		var found []Edge
		if edge, ok := pathToEdge(box); ok {
			found = append(found, edge)
		} else if segments.Count >= 4 {
			rects = append(rects, box)
			found = boundsToEdges(box)
		}
		for _, e := range found {
			if !isPageBorder(e, pageWidth, pageHeight) {
				edges = append(edges, e)
			}
		}
	}

	return images, rects, edges, nil
}
