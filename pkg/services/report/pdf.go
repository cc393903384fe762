package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

type DocumentWriter interface {
	Write(ctx context.Context, raster *Raster, layout Layout) ([]byte, error)
}

// PDFWriter places each band of the raster on its own PDF page.
type PDFWriter struct{}

func NewPDFWriter() *PDFWriter {
	return &PDFWriter{}
}

func (w *PDFWriter) Write(ctx context.Context, raster *Raster, layout Layout) ([]byte, error) {
	if raster == nil || len(layout.Pages) == 0 {
		return nil, fmt.Errorf("nothing to write")
	}
	src, _, err := image.Decode(bytes.NewReader(raster.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode raster: %w", err)
	}

	g := layout.Geometry
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for i, page := range layout.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		band, err := encodeBand(src, page.Band)
		if err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("band-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, band)
		pdf.ImageOptions(name, page.X, page.Y, page.W, page.H, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return out.Bytes(), nil
}

func encodeBand(src image.Image, band image.Rectangle) (*bytes.Buffer, error) {
	band = band.Add(src.Bounds().Min).Intersect(src.Bounds())
	if band.Empty() {
		return nil, fmt.Errorf("empty band")
	}
	dst := image.NewRGBA(image.Rect(0, 0, band.Dx(), band.Dy()))
	draw.Draw(dst, dst.Bounds(), src, band.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return &buf, nil
}
