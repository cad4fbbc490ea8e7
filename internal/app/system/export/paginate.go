// internal/app/system/export/paginate.go
package export

import (
	"errors"
	"math"
)

// A4 portrait, in millimetres.
const (
	A4Width  = 210.0
	A4Height = 297.0
)

// pageEpsilon absorbs floating-point error so a bitmap that scales to an
// exact multiple of the page height does not spill onto an empty page.
const pageEpsilon = 1e-6

// ErrEmptyBitmap is returned when a bitmap or page has no area.
var ErrEmptyBitmap = errors.New("export: empty bitmap or page")

// Layout places one tall image across pages. Every page draws the full image
// shifted up by the page's offset, so each page is a window onto the same
// bitmap.
type Layout struct {
	PageWidth   float64
	PageHeight  float64
	ImageWidth  float64
	ImageHeight float64
	Offsets     []float64
}

// Pages is the page count.
func (l Layout) Pages() int { return len(l.Offsets) }

// Paginate scales a bitmapW×bitmapH bitmap to the page width and computes
// one vertical offset per page: 0, -pageH, -2·pageH, …
func Paginate(bitmapW, bitmapH int, pageW, pageH float64) (Layout, error) {
	if bitmapW <= 0 || bitmapH <= 0 || pageW <= 0 || pageH <= 0 {
		return Layout{}, ErrEmptyBitmap
	}

	scaledH := float64(bitmapH) * pageW / float64(bitmapW)
	n := int(math.Ceil((scaledH - pageEpsilon) / pageH))
	if n < 1 {
		n = 1
	}

	offsets := make([]float64, n)
	for i := range offsets {
		offsets[i] = -float64(i) * pageH
	}

	return Layout{
		PageWidth:   pageW,
		PageHeight:  pageH,
		ImageWidth:  pageW,
		ImageHeight: scaledH,
		Offsets:     offsets,
	}, nil
}
