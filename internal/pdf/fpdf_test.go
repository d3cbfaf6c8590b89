package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_FpdfBackend(t *testing.T) {
	doc, err := Generate(sampleInvoice(), NewFpdfCanvas())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF")))
	assert.Greater(t, len(doc.Bytes), 1000)
	assert.Equal(t, "invoice-INV-2024-0007.pdf", doc.Filename)
}

func TestFpdfCanvas_PageBreak(t *testing.T) {
	c := NewFpdfCanvas()
	c.Text("one", margin, 800, FontRegular, 10, colorText)
	c.PageBreak()
	c.Text("two", margin, 800, FontRegular, 10, colorText)
	assert.Equal(t, 2, c.doc.PageCount())

	out, err := c.Finalize()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
