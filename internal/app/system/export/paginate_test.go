package export

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPaginate_TallBitmapSpansPages(t *testing.T) {
	// 1000 px wide, 3000 px tall: scaled to 210 mm wide the image is 630 mm,
	// which needs three A4 pages (297 + 297 + 36).
	l, err := Paginate(1000, 3000, A4Width, A4Height)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}

	if l.Pages() != 3 {
		t.Fatalf("pages = %d, want 3", l.Pages())
	}
	if l.ImageWidth != A4Width {
		t.Errorf("image width = %v, want %v", l.ImageWidth, A4Width)
	}
	if math.Abs(l.ImageHeight-630) > 1e-9 {
		t.Errorf("image height = %v, want 630", l.ImageHeight)
	}
	if diff := cmp.Diff([]float64{0, -297, -594}, l.Offsets); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginate_OffsetsStepByPageHeight(t *testing.T) {
	l, err := Paginate(800, 9000, A4Width, A4Height)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}

	want := int(math.Ceil(l.ImageHeight / A4Height))
	if l.Pages() != want {
		t.Fatalf("pages = %d, want %d", l.Pages(), want)
	}
	for i := 1; i < len(l.Offsets); i++ {
		if got := l.Offsets[i-1] - l.Offsets[i]; math.Abs(got-A4Height) > 1e-9 {
			t.Errorf("offset step %d = %v, want %v", i, got, A4Height)
		}
	}
}

func TestPaginate_PageCounts(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		wantPages int
	}{
		{"short region", 1000, 200, 1},
		{"exactly one page", 210, 297, 1},
		{"exactly two pages", 210, 594, 2},
		{"just over one page", 210, 298, 2},
		{"one pixel tall", 2000, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Paginate(tt.w, tt.h, A4Width, A4Height)
			if err != nil {
				t.Fatalf("Paginate: %v", err)
			}
			if l.Pages() != tt.wantPages {
				t.Errorf("pages = %d, want %d", l.Pages(), tt.wantPages)
			}
			if l.Offsets[0] != 0 {
				t.Errorf("first offset = %v, want 0", l.Offsets[0])
			}
		})
	}
}

func TestPaginate_RejectsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		pw, ph float64
	}{
		{"zero width", 0, 100, A4Width, A4Height},
		{"zero height", 100, 0, A4Width, A4Height},
		{"negative width", -5, 100, A4Width, A4Height},
		{"zero page height", 100, 100, A4Width, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Paginate(tt.w, tt.h, tt.pw, tt.ph)
			if !errors.Is(err, ErrEmptyBitmap) {
				t.Errorf("err = %v, want ErrEmptyBitmap", err)
			}
		})
	}
}
