package compose

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"

	"github.com/jung-kurt/gofpdf"
)

// pxToMM converts pixel dimensions to millimeters at the conventional 96 dpi.
const pxToMM = 25.4 / 96.0

// imageTypeFor maps a sniffed content type onto gofpdf's registration type.
// Unknown formats are unmeasurable and must be skipped, not registered, so a
// corrupt payload can never poison the document state.
func imageTypeFor(data []byte) (string, bool) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "JPG", true
	case "image/png":
		return "PNG", true
	case "image/gif":
		return "GIF", true
	default:
		return "", false
	}
}

// measureImage decodes only the image header and returns its native size in
// millimeters.
func measureImage(data []byte) (wMM, hMM float64, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("degenerate image %dx%d", cfg.Width, cfg.Height)
	}
	return float64(cfg.Width) * pxToMM, float64(cfg.Height) * pxToMM, nil
}

// scaleFor computes the aspect-preserving scale factor for an image of native
// size wMM x hMM against the content width and the given height allowance.
// Images are never upscaled past their native size.
func (c *cursor) scaleFor(wMM, hMM, maxH float64) float64 {
	s := c.geom.ContentWidth() / wMM
	if hs := maxH / hMM; hs < s {
		s = hs
	}
	if s > 1 {
		s = 1
	}
	return s
}

// placeImage registers the image under its URL and lays it out with the
// two-phase measurement the pagination algorithm requires: the provisional
// scale from the current remaining height decides only whether the page
// breaks; the final scale is recomputed from the post-break remaining height
// so placement is never derived from a stale position.
func (c *cursor) placeImage(name string, data []byte) error {
	imgType, ok := imageTypeFor(data)
	if !ok {
		return fmt.Errorf("unsupported image format")
	}
	wMM, hMM, err := measureImage(data)
	if err != nil {
		return err
	}

	// Phase one: provisional scale against what is left on this page. When
	// the remaining height clips the image harder than the fixed cap would,
	// a fresh page gives it more room, so break first.
	provisional := c.scaleFor(wMM, hMM, math.Min(c.geom.MaxImageHeight, c.remaining()))
	unclipped := c.scaleFor(wMM, hMM, c.geom.MaxImageHeight)
	if provisional < unclipped {
		c.startPage()
	}

	// Phase two: recompute against the page we are actually on.
	avail := math.Min(c.geom.MaxImageHeight, c.remaining())
	scale := c.scaleFor(wMM, hMM, avail)
	w := wMM * scale
	h := hMM * scale

	opts := gofpdf.ImageOptions{ImageType: imgType}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if c.pdf.Err() {
		// A payload gofpdf cannot parse is skipped like a failed fetch; the
		// error state must be cleared or it would abort the whole document.
		err := c.pdf.Error()
		c.pdf.ClearError()
		return fmt.Errorf("register image: %w", err)
	}
	c.pdf.ImageOptions(name, c.geom.MarginLeft, c.pdf.GetY(), w, h, false, opts, 0, "")
	c.pdf.SetY(c.pdf.GetY() + h)
	c.pdf.Ln(gapAfterImage)
	return nil
}
