package compose

import (
	"github.com/jung-kurt/gofpdf"
)

// cursor is the single-writer layout state for one document build: the
// current vertical position, page box and font role. It is never shared
// across builds and layout emission through it is strictly sequential.
type cursor struct {
	pdf   *gofpdf.Fpdf
	geom  Geometry
	fonts FontSet
}

// startPage opens a fresh page and resets the write position to the top
// margin. Used for both hard breaks (article and section boundaries) and
// soft breaks (content overflow).
func (c *cursor) startPage() {
	c.pdf.AddPage()
	c.pdf.SetXY(c.geom.MarginLeft, c.geom.MarginTop)
}

// bottom is the lowest writable Y on the current page.
func (c *cursor) bottom() float64 {
	return c.geom.PageHeight - c.geom.MarginBottom
}

// remaining is the writable height left below the current position.
func (c *cursor) remaining() float64 {
	return c.bottom() - c.pdf.GetY()
}

func (c *cursor) setFont(f Font) {
	c.pdf.SetFont(f.Family, f.Style, f.Size)
}

// writeText lays out one text block in the given role and advances past it by
// the role's gap. If the whole block does not fit the remaining height but
// would fit a fresh page, the page breaks before any line is written; blocks
// taller than a full page spill line by line instead.
func (c *cursor) writeText(f Font, text string, gapAfter float64) {
	c.writeLinkedText(f, text, gapAfter, "")
}

// writeLinkedText is writeText with an optional clickable target applied to
// every emitted line.
func (c *cursor) writeLinkedText(f Font, text string, gapAfter float64, link string) {
	c.setFont(f)
	lh := lineHeight(f)
	lines := c.pdf.SplitText(text, c.geom.ContentWidth())
	if need := float64(len(lines)) * lh; need > c.remaining() && need <= c.geom.ContentHeight() {
		c.startPage()
		c.setFont(f)
	}
	for _, line := range lines {
		if c.pdf.GetY()+lh > c.bottom() {
			c.startPage()
			c.setFont(f)
		}
		if link != "" {
			c.pdf.SetX(c.geom.MarginLeft)
			c.pdf.WriteLinkString(lh, line, link)
			c.pdf.Ln(lh)
		} else {
			c.pdf.SetX(c.geom.MarginLeft)
			c.pdf.CellFormat(c.geom.ContentWidth(), lh, line, "", 1, "L", false, 0, "")
		}
	}
	c.pdf.Ln(gapAfter)
}
