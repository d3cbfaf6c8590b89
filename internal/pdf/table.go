package pdf

import "strconv"

// Item table metrics. Rows grow beyond the base height when the wrapped
// description needs more lines; they never shrink below it.
const (
	headerBandHeight = 24
	baseRowHeight    = 24
	emptyRowHeight   = 32
	descLineHeight   = 12
	cellPadding      = 6
	borderWidth      = 0.75
)

// tableFractions splits the content width between the Item, Qty, Price and
// Total columns.
var tableFractions = []float64{0.52, 0.12, 0.16, 0.20}

// tableGeometry holds the column boundaries of the item table. Fixed once
// per document.
type tableGeometry struct {
	cols   []float64 // left edge of each column
	widths []float64
	right  float64 // right edge of the table
}

func newTableGeometry() tableGeometry {
	g := tableGeometry{
		cols:   columnOffsets(tableFractions),
		widths: make([]float64, len(tableFractions)),
	}
	for i, f := range tableFractions {
		g.widths[i] = f * contentWidth
	}
	g.right = g.cols[len(g.cols)-1] + g.widths[len(g.widths)-1]
	return g
}

// cellRight is the x position against which right-aligned cell content ends.
func (g tableGeometry) cellRight(col int) float64 {
	return g.cols[col] + g.widths[col] - cellPadding
}

// drawItemTable renders the header band plus one row per line item. An empty
// item list renders a single placeholder row so the table always keeps its
// frame. Rows that no longer fit move to a new page, where the header band
// repeats.
func drawItemTable(l *layout, inv *Invoice) {
	g := newTableGeometry()
	drawTableHeader(l, g)

	if len(inv.Items) == 0 {
		drawEmptyRow(l, g)
		return
	}
	for _, item := range inv.Items {
		drawItemRow(l, g, item, inv.Currency)
	}
}

func drawTableHeader(l *layout, g tableGeometry) {
	// Keep the band together with at least one row.
	l.ensure(headerBandHeight + baseRowHeight)
	top := l.y
	l.canvas.Rect(margin, top, g.right-margin, headerBandHeight, colorBand)
	drawRowFrame(l, g, top, headerBandHeight)

	textY := top - 16
	l.canvas.Text("Item", g.cols[0]+cellPadding, textY, FontBold, 11, colorText)
	drawRightAligned(l, "Qty", g.cellRight(1), textY, FontBold, 11, colorText)
	drawRightAligned(l, "Price", g.cellRight(2), textY, FontBold, 11, colorText)
	drawRightAligned(l, "Total", g.cellRight(3), textY, FontBold, 11, colorText)
	l.advance(headerBandHeight)
}

func drawItemRow(l *layout, g tableGeometry, item LineItem, currency string) {
	descLines := wrapText(item.Description, g.widths[0]-2*cellPadding, 9)
	rowHeight := float64(baseRowHeight + len(descLines)*descLineHeight)

	if !l.fits(rowHeight) {
		l.newPage()
		drawTableHeader(l, g)
	}
	top := l.y
	drawRowFrame(l, g, top, rowHeight)

	name := item.Name
	if name == "" {
		name = "-"
	}
	textY := top - 16
	l.canvas.Text(name, g.cols[0]+cellPadding, textY, FontBold, 11, colorText)
	descY := textY
	for _, line := range descLines {
		descY -= descLineHeight
		l.canvas.Text(line, g.cols[0]+cellPadding, descY, FontRegular, 9, colorMuted)
	}

	// Numeric cells stay aligned with the name's baseline even when the
	// wrapped description makes the row taller.
	drawRightAligned(l, strconv.Itoa(item.Quantity), g.cellRight(1), textY, FontRegular, 11, colorText)
	drawRightAligned(l, FormatCurrency(item.UnitPrice, currency), g.cellRight(2), textY, FontRegular, 11, colorText)
	drawRightAligned(l, FormatCurrency(item.Amount(), currency), g.cellRight(3), textY, FontBold, 11, colorText)

	l.advance(rowHeight)
}

func drawEmptyRow(l *layout, g tableGeometry) {
	top := l.y
	drawRowFrame(l, g, top, emptyRowHeight)
	const placeholder = "No items added yet."
	x := margin + (g.right-margin)/2 - textWidth(placeholder, 11)/2
	l.canvas.Text(placeholder, x, top-18, FontRegular, 11, colorMuted)
	l.advance(emptyRowHeight)
}

// drawRowFrame strokes the horizontal separators above and below the row,
// the outer table edges and the column boundaries.
func drawRowFrame(l *layout, g tableGeometry, top, height float64) {
	bottom := top - height
	left := g.cols[0]
	l.canvas.Line(left, top, g.right, top, borderWidth, colorBorder)
	l.canvas.Line(left, bottom, g.right, bottom, borderWidth, colorBorder)
	l.canvas.Line(left, top, left, bottom, borderWidth, colorBorder)
	l.canvas.Line(g.right, top, g.right, bottom, borderWidth, colorBorder)
	for _, x := range g.cols[1:] {
		l.canvas.Line(x, top, x, bottom, borderWidth, colorBorder)
	}
}

func drawRightAligned(l *layout, s string, right, y float64, font FontRef, size float64, color Color) {
	l.canvas.Text(s, right-textWidth(s, size), y, font, size, color)
}
