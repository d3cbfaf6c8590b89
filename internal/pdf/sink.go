package pdf

// FontRef selects one of the two standard fonts embedded in every document.
type FontRef int

const (
	FontRegular FontRef = iota // Helvetica
	FontBold                   // Helvetica-Bold
)

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

func rgb(r, g, b int) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Palette lifted from the dashboard theme so downloads match the on-screen preview.
var (
	colorText     = rgb(17, 24, 39)
	colorMuted    = rgb(75, 85, 99)
	colorBorder   = rgb(229, 231, 235)
	colorBand     = rgb(249, 250, 251)
	colorDiscount = rgb(239, 68, 68)
)

// Canvas receives the drawing operations produced by the layout engine and
// turns them into document bytes. Coordinates follow the PDF convention: the
// origin is the bottom-left corner of the page and y decreases toward the
// bottom edge. A Canvas starts with one open page; PageBreak finishes it and
// opens the next.
//
// The layout engine is the only producer of these calls, so an alternative
// rendering backend (including a rasterizing one) only needs to honor this
// interface to become a drop-in replacement.
type Canvas interface {
	// Text draws a single line of text with its baseline at (x, y).
	Text(s string, x, y float64, font FontRef, size float64, color Color)
	// Line strokes a straight segment from (x1, y1) to (x2, y2).
	Line(x1, y1, x2, y2, width float64, color Color)
	// Rect fills the rectangle whose top-left corner is at (x, top) and which
	// extends w points right and h points down.
	Rect(x, top, w, h float64, fill Color)
	// PageBreak finishes the current page and opens a new one.
	PageBreak()
	// Finalize encodes all pages and returns the document bytes. The canvas
	// must not be used afterwards.
	Finalize() ([]byte, error)
}
