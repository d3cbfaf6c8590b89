// Package pdf turns an Invoice value into a paginated A4 document through
// manual layout arithmetic: column positions, greedy text wrapping, a
// downward-moving cursor and computed row heights. The layout engine emits
// abstract drawing operations into a Canvas; the built-in Writer encodes
// them as a minimal PDF 1.4 file and FpdfCanvas renders the same operations
// through gofpdf.
//
// Generation is synchronous, CPU-only and stateless across calls: identical
// invoices produce byte-identical documents (with the built-in Writer).
package pdf

import "fmt"

// MIMEType of every generated document.
const MIMEType = "application/pdf"

// Document is the generated download artifact.
type Document struct {
	Bytes    []byte
	Filename string
	MIMEType string
}

// Generate lays the invoice out through the given canvas. Sections are drawn
// in fixed order, each starting where the previous one left the cursor:
// header, bill-to and dates, item table, totals, then the optional note and
// terms paragraphs.
func Generate(inv *Invoice, canvas Canvas) (*Document, error) {
	l := newLayout(canvas)
	drawHeader(l, inv)
	drawBillTo(l, inv)
	drawItemTable(l, inv)
	drawTotals(l, inv)
	drawParagraph(l, "Note:", inv.Notes)
	drawParagraph(l, "Terms & Conditions:", inv.Terms)

	data, err := canvas.Finalize()
	if err != nil {
		return nil, fmt.Errorf("pdf: finalize invoice %s: %w", inv.Number(), err)
	}
	return &Document{
		Bytes:    data,
		Filename: inv.Filename(),
		MIMEType: MIMEType,
	}, nil
}

// InvoicePDF renders the invoice with the built-in writer and is the entry
// point the HTTP layer calls.
func InvoicePDF(inv *Invoice) (*Document, error) {
	return Generate(inv, NewWriter())
}

// drawHeader renders the document title and invoice number on the left and
// the issuer block on the right.
func drawHeader(l *layout, inv *Invoice) {
	top := l.y
	l.canvas.Text("INVOICE", margin, top, FontBold, 24, colorText)
	l.canvas.Text("#"+inv.Number(), margin, top-18, FontRegular, 12, colorMuted)

	company := inv.CompanyName
	if company == "" {
		company = "Your Company Name"
	}
	rightX := pageWidth - margin - 200
	l.canvas.Text(company, rightX, top, FontBold, 12, colorText)
	if inv.CompanyAddress != "" {
		l.canvas.Text(inv.CompanyAddress, rightX, top-18, FontRegular, 10, colorMuted)
	}
	l.advance(54)
}

// drawBillTo renders the recipient block on the left and the issued/due
// dates on the right.
func drawBillTo(l *layout, inv *Invoice) {
	top := l.y
	l.canvas.Text("Bill To:", margin, top, FontBold, 11, colorText)
	name := inv.ClientName
	if name == "" {
		name = "-"
	}
	address := inv.ClientAddress
	if address == "" {
		address = "-"
	}
	l.canvas.Text(name, margin, top-14, FontRegular, 10, colorText)
	l.canvas.Text(address, margin, top-28, FontRegular, 10, colorMuted)

	dateX := pageWidth - margin - 200
	l.canvas.Text("Date Issued:", dateX, top, FontBold, 10, colorMuted)
	l.canvas.Text(FormatDate(inv.InvoiceDate), dateX, top-14, FontRegular, 10, colorText)
	l.canvas.Text("Due Date:", dateX, top-32, FontBold, 10, colorMuted)
	l.canvas.Text(FormatDate(inv.DueDate), dateX, top-46, FontRegular, 10, colorText)
	l.advance(70)
}

// drawTotals renders the summary block right-aligned under the table:
// subtotal, tax (always shown, even at 0%), the discount row only when a
// discount is set, then the emphasized total under a divider.
func drawTotals(l *layout, inv *Invoice) {
	const spacing = 16
	t := inv.ComputeTotals()
	right := pageWidth - margin
	left := right - 180

	rows := 3.0
	if inv.Discount > 0 {
		rows++
	}
	l.advance(30)
	l.ensure(rows*spacing + 13)

	y := l.y
	l.canvas.Text("Subtotal:", left, y, FontRegular, 11, colorMuted)
	drawRightAligned(l, FormatCurrency(t.Subtotal, inv.Currency), right-cellPadding, y, FontBold, 11, colorText)
	y -= spacing

	l.canvas.Text("Tax ("+formatRate(inv.TaxRate)+"%):", left, y, FontRegular, 11, colorMuted)
	drawRightAligned(l, FormatCurrency(t.Tax, inv.Currency), right-cellPadding, y, FontBold, 11, colorText)
	y -= spacing

	if inv.Discount > 0 {
		l.canvas.Text("Discount:", left, y, FontRegular, 11, colorMuted)
		discount := "- " + FormatCurrency(inv.Discount, inv.Currency)
		drawRightAligned(l, discount, right-cellPadding, y, FontBold, 11, colorDiscount)
		y -= spacing
	}

	l.canvas.Line(left, y+spacing-6, right, y+spacing-6, borderWidth, colorBorder)
	l.canvas.Text("Total:", left, y, FontBold, 13, colorText)
	drawRightAligned(l, FormatCurrency(t.Total, inv.Currency), right-cellPadding, y, FontBold, 13, colorText)

	l.y = y
	l.advance(36)
}

// drawParagraph renders a bold label followed by the wrapped paragraph text.
// Blank text draws nothing, label included.
func drawParagraph(l *layout, label, text string) {
	lines := wrapText(text, contentWidth, 10)
	if len(lines) == 0 {
		return
	}
	l.ensure(14 + descLineHeight)
	l.canvas.Text(label, margin, l.y, FontBold, 11, colorText)
	l.advance(14)
	for _, line := range lines {
		l.ensure(descLineHeight)
		l.canvas.Text(line, margin, l.y, FontRegular, 10, colorMuted)
		l.advance(descLineHeight)
	}
	l.advance(12)
}
