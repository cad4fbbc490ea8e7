package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// testPNG encodes a w×h opaque image.
func testPNG(t *testing.T, w, h int) Bitmap {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return Bitmap{PNG: buf.Bytes(), Width: w, Height: h}
}

func TestBuildPDF_OnePagePerOffset(t *testing.T) {
	bm := testPNG(t, 100, 300)
	layout, err := Paginate(bm.Width, bm.Height, A4Width, A4Height)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}

	pdf, err := buildPDF(bm, layout)
	if err != nil {
		t.Fatalf("buildPDF: %v", err)
	}
	if pdf.PageCount() != layout.Pages() {
		t.Errorf("PageCount = %d, want %d", pdf.PageCount(), layout.Pages())
	}
}

func TestPDFAssembler_WritesPDF(t *testing.T) {
	bm := testPNG(t, 50, 40)
	layout, err := Paginate(bm.Width, bm.Height, A4Width, A4Height)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}

	var out bytes.Buffer
	if err := (PDFAssembler{}).Assemble(bm, layout, &out); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", out.Bytes()[:min(16, out.Len())])
	}
}

func TestPDFAssembler_EmptyBitmap(t *testing.T) {
	var out bytes.Buffer
	err := (PDFAssembler{}).Assemble(Bitmap{}, Layout{}, &out)
	if !errors.Is(err, ErrEmptyBitmap) {
		t.Errorf("err = %v, want ErrEmptyBitmap", err)
	}
	if out.Len() != 0 {
		t.Errorf("wrote %d bytes on failure", out.Len())
	}
}

func TestPDFAssembler_CorruptImage(t *testing.T) {
	bm := Bitmap{PNG: []byte("not a png"), Width: 10, Height: 10}
	layout, _ := Paginate(10, 10, A4Width, A4Height)

	var out bytes.Buffer
	if err := (PDFAssembler{}).Assemble(bm, layout, &out); err == nil {
		t.Error("expected error for corrupt image")
	}
}
