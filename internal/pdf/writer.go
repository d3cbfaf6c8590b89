package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Writer is the built-in Canvas implementation: a minimal PDF 1.4 encoder
// that serializes the drawing operations into one uncompressed content
// stream per page, builds the catalog/page-tree object graph with the two
// standard Helvetica font resources, and emits a byte-offset cross-reference
// table and trailer. No external library is involved, which keeps the output
// byte-identical for identical input.
type Writer struct {
	pages []*bytes.Buffer
}

// NewWriter returns a Writer with its first page open.
func NewWriter() *Writer {
	return &Writer{pages: []*bytes.Buffer{{}}}
}

func (w *Writer) current() *bytes.Buffer {
	return w.pages[len(w.pages)-1]
}

// Text draws a single line of text with its baseline at (x, y).
func (w *Writer) Text(s string, x, y float64, font FontRef, size float64, color Color) {
	name := "F1"
	if font == FontBold {
		name = "F2"
	}
	fmt.Fprintf(w.current(), "%s\nBT /%s %s Tf 1 0 0 1 %.2f %.2f Tm (%s) Tj ET\n",
		colorOp(color, "rg"), name, formatSize(size), x, y, escapeText(s))
}

// Line strokes a straight segment between the two points.
func (w *Writer) Line(x1, y1, x2, y2, width float64, color Color) {
	fmt.Fprintf(w.current(), "%s\n%.2f w\n%.2f %.2f m %.2f %.2f l S\n",
		colorOp(color, "RG"), width, x1, y1, x2, y2)
}

// Rect fills the rectangle whose top-left corner is at (x, top).
func (w *Writer) Rect(x, top, wd, h float64, fill Color) {
	fmt.Fprintf(w.current(), "%s\n%.2f %.2f %.2f %.2f re f\n",
		colorOp(fill, "rg"), x, top-h, wd, h)
}

// PageBreak finishes the current page and opens the next.
func (w *Writer) PageBreak() {
	w.pages = append(w.pages, &bytes.Buffer{})
}

// PageCount reports the number of pages opened so far.
func (w *Writer) PageCount() int {
	return len(w.pages)
}

// Finalize assembles the object graph and returns the complete document.
func (w *Writer) Finalize() ([]byte, error) {
	kids := make([]string, len(w.pages))
	for i := range w.pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	fontRegular := 3 + 2*len(w.pages)
	fontBold := fontRegular + 1

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
			strings.Join(kids, " "), len(w.pages)),
	}
	for i, page := range w.pages {
		content := page.Bytes()
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R /F2 %d 0 R >> >> >>",
				pageWidth, pageHeight, 4+2*i, fontRegular, fontBold),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects = append(objects,
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>",
	)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects))
	for i, obj := range objects {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF",
		len(objects)+1, xrefOffset)

	return buf.Bytes(), nil
}

func colorOp(c Color, operator string) string {
	return fmt.Sprintf("%.3f %.3f %.3f %s", c.R, c.G, c.B, operator)
}

func formatSize(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`(`, `\(`,
	`)`, `\)`,
	"\r", " ",
	"\n", " ",
)

// escapeText makes a string safe for embedding in a literal string inside a
// content stream.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}
