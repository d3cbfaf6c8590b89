package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// FpdfCanvas renders the drawing contract through gofpdf instead of the
// built-in writer. It produces an equivalent document from the same layout
// calls; the library handles font metrics objects, compression and encoding.
// gofpdf places the origin at the top-left corner, so y-coordinates are
// flipped on the way in.
type FpdfCanvas struct {
	doc *gofpdf.Fpdf
	tr  func(string) string
}

// NewFpdfCanvas returns an FpdfCanvas with its first page open.
func NewFpdfCanvas() *FpdfCanvas {
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	return &FpdfCanvas{
		doc: doc,
		// Standard core fonts are cp1252; translate so the currency symbols
		// survive the trip.
		tr: doc.UnicodeTranslatorFromDescriptor(""),
	}
}

// Text draws a single line of text with its baseline at (x, y).
func (c *FpdfCanvas) Text(s string, x, y float64, font FontRef, size float64, color Color) {
	style := ""
	if font == FontBold {
		style = "B"
	}
	c.doc.SetFont("Helvetica", style, size)
	c.doc.SetTextColor(to255(color))
	c.doc.Text(x, pageHeight-y, c.tr(s))
}

// Line strokes a straight segment between the two points.
func (c *FpdfCanvas) Line(x1, y1, x2, y2, width float64, color Color) {
	c.doc.SetDrawColor(to255(color))
	c.doc.SetLineWidth(width)
	c.doc.Line(x1, pageHeight-y1, x2, pageHeight-y2)
}

// Rect fills the rectangle whose top-left corner is at (x, top).
func (c *FpdfCanvas) Rect(x, top, w, h float64, fill Color) {
	c.doc.SetFillColor(to255(fill))
	c.doc.Rect(x, pageHeight-top, w, h, "F")
}

// PageBreak finishes the current page and opens the next.
func (c *FpdfCanvas) PageBreak() {
	c.doc.AddPage()
}

// Finalize encodes the document and returns its bytes.
func (c *FpdfCanvas) Finalize() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: encode document: %w", err)
	}
	return buf.Bytes(), nil
}

func to255(c Color) (int, int, int) {
	return int(c.R*255 + 0.5), int(c.G*255 + 0.5), int(c.B*255 + 0.5)
}
