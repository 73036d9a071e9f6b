package compose

// Font names a gofpdf core font with style flags and point size.
type Font struct {
	Family string
	Style  string
	Size   float64
}

// FontSet maps layout roles to fonts. It is injected rather than discovered
// from the filesystem so the compositor can be exercised with a fixed set.
type FontSet struct {
	Title  Font
	Byline Font
	Source Font
	Body   Font
	// HeadingSizes holds point sizes for heading levels 1..6.
	HeadingSizes [6]float64
	// HeadingFamily and HeadingStyle apply to every heading level.
	HeadingFamily string
	HeadingStyle  string
}

// Heading returns the font for a heading level, clamping out-of-range levels.
func (fs FontSet) Heading(level int) Font {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return Font{Family: fs.HeadingFamily, Style: fs.HeadingStyle, Size: fs.HeadingSizes[level-1]}
}

// DefaultFonts is the built-in role assignment: sans for the title block,
// bold sans headings, serif body.
func DefaultFonts() FontSet {
	return FontSet{
		Title:         Font{Family: "Helvetica", Style: "B", Size: 18},
		Byline:        Font{Family: "Helvetica", Style: "I", Size: 10},
		Source:        Font{Family: "Helvetica", Style: "", Size: 9},
		Body:          Font{Family: "Times", Style: "", Size: 11},
		HeadingSizes:  [6]float64{16, 14, 13, 12, 11, 10.5},
		HeadingFamily: "Helvetica",
		HeadingStyle:  "B",
	}
}

// Geometry fixes the page box in millimeters.
type Geometry struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	// MaxImageHeight caps any single image regardless of page size.
	MaxImageHeight float64
}

// DefaultGeometry is A4 portrait with 15 mm margins and an 80 mm image cap.
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:      210,
		PageHeight:     297,
		MarginLeft:     15,
		MarginTop:      15,
		MarginRight:    15,
		MarginBottom:   15,
		MaxImageHeight: 80,
	}
}

// ContentWidth is the writable width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// ContentHeight is the writable height of a fresh page.
func (g Geometry) ContentHeight() float64 {
	return g.PageHeight - g.MarginTop - g.MarginBottom
}

// lineHeight derives a line advance in millimeters from the font's point
// size. 1 pt = 0.3528 mm; the factor leaves breathing room between lines.
func lineHeight(f Font) float64 {
	return f.Size * 0.3528 * 1.4
}

// Inter-block gaps in millimeters, scaled to role: headings carry more air
// than paragraphs.
const (
	gapAfterTitle     = 2.5
	gapAfterByline    = 1.5
	gapAfterSource    = 5.0
	gapAfterHeading   = 3.0
	gapAfterParagraph = 2.0
	gapAfterImage     = 3.0
)
