package pdf

// Page geometry is fixed for every generated document: A4 in points with a
// uniform margin on all four sides.
const (
	pageWidth  = 595.28
	pageHeight = 841.89
	margin     = 40

	contentWidth = pageWidth - 2*margin
)

// columnOffsets converts fractional column widths (summing to at most 1.0 of
// the content width) into absolute left-edge x positions, starting at the
// left margin.
func columnOffsets(fractions []float64) []float64 {
	offsets := make([]float64, len(fractions))
	x := float64(margin)
	for i, f := range fractions {
		offsets[i] = x
		x += f * contentWidth
	}
	return offsets
}

// layout carries the vertical write position through the section renderers.
// It is created per generation and discarded afterwards, so concurrent
// generations never share state. The cursor only ever moves down the page,
// which with a bottom-left origin means y only ever decreases.
type layout struct {
	canvas Canvas
	y      float64
}

func newLayout(c Canvas) *layout {
	return &layout{canvas: c, y: pageHeight - margin}
}

// advance moves the cursor h points down the page.
func (l *layout) advance(h float64) {
	l.y -= h
}

// fits reports whether a block of the given height still fits above the
// bottom margin of the current page.
func (l *layout) fits(h float64) bool {
	return l.y-h >= margin
}

// newPage finishes the current page and resets the cursor to the top of the
// next one.
func (l *layout) newPage() {
	l.canvas.PageBreak()
	l.y = pageHeight - margin
}

// ensure starts a new page unless a block of the given height fits on the
// current one.
func (l *layout) ensure(h float64) {
	if !l.fits(h) {
		l.newPage()
	}
}
