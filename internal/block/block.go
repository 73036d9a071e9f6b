// Package block defines the typed content model for normalized articles and
// the extractor that converts a readability-cleaned HTML fragment into an
// ordered sequence of blocks.
package block

// Block is a single unit of article content in reading order. The type is a
// closed union: only Heading, Paragraph and Image implement it, so consumers
// can switch exhaustively.
type Block interface {
	isBlock()
}

// Heading is a section heading with its HTML level (1..6).
type Heading struct {
	Level int
	Text  string
}

// Paragraph is running body text. List items, blockquotes, figure captions and
// bare text nodes all normalize to paragraphs.
type Paragraph struct {
	Text string
}

// Image references an image by absolute URL. Relative sources are resolved
// during extraction; an Image never carries a relative URL.
type Image struct {
	SourceURL string
}

func (Heading) isBlock()   {}
func (Paragraph) isBlock() {}
func (Image) isBlock()     {}
