// internal/app/system/export/assembler.go
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Assembler writes a paginated document for a bitmap and layout.
type Assembler interface {
	Assemble(bm Bitmap, layout Layout, w io.Writer) error
}

// PDFAssembler produces A4 portrait PDFs with no margins.
type PDFAssembler struct{}

const imageName = "region"

// Assemble implements Assembler.
func (PDFAssembler) Assemble(bm Bitmap, layout Layout, w io.Writer) error {
	pdf, err := buildPDF(bm, layout)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func buildPDF(bm Bitmap, layout Layout) (*fpdf.Fpdf, error) {
	if len(bm.PNG) == 0 || layout.Pages() == 0 {
		return nil, ErrEmptyBitmap
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	// Pages after the first place the image above the page top.
	opts := fpdf.ImageOptions{ImageType: "PNG", AllowNegativePosition: true}
	pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(bm.PNG))
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("register image: %w", err)
	}

	for _, y := range layout.Offsets {
		pdf.AddPage()
		pdf.ImageOptions(imageName, 0, y, layout.ImageWidth, layout.ImageHeight, false, opts, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("place image: %w", err)
	}
	return pdf, nil
}
