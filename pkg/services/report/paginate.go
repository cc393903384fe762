package report

import (
	"image"
	"math"
)

// PageGeometry is the output page size and margins in points.
type PageGeometry struct {
	Width     float64
	Height    float64
	Margin    float64
	TopMargin float64
}

// A4 portrait with the margins used for section exports.
var A4 = PageGeometry{Width: 595.28, Height: 841.89, Margin: 5, TopMargin: 2}

func (g PageGeometry) PrintableWidth() float64 {
	return g.Width - 2*g.Margin
}

func (g PageGeometry) PrintableHeight() float64 {
	return g.Height - g.TopMargin - g.Margin
}

// Page places one horizontal band of the raster on one output page.
type Page struct {
	Band image.Rectangle // source pixels
	X, Y float64         // points
	W, H float64
}

type Layout struct {
	Geometry PageGeometry
	Scale    float64 // points per source pixel
	Pages    []Page
}

// Paginate scales a raster of the given size to the printable width and,
// when it is taller than one page, cuts it into equal bands, one per page.
func Paginate(size image.Point, g PageGeometry) Layout {
	layout := Layout{Geometry: g}
	if size.X <= 0 || size.Y <= 0 || g.PrintableWidth() <= 0 || g.PrintableHeight() <= 0 {
		return layout
	}

	layout.Scale = g.PrintableWidth() / float64(size.X)
	scaledHeight := float64(size.Y) * layout.Scale

	count := 1
	if scaledHeight > g.PrintableHeight() {
		count = int(math.Ceil(scaledHeight / g.PrintableHeight()))
	}
	if count > size.Y {
		count = size.Y
	}

	bandHeight := float64(size.Y) / float64(count)
	layout.Pages = make([]Page, 0, count)
	for i := 0; i < count; i++ {
		y0 := int(math.Round(float64(i) * bandHeight))
		y1 := int(math.Round(float64(i+1) * bandHeight))
		if i == count-1 {
			y1 = size.Y
		}
		band := image.Rect(0, y0, size.X, y1)
		layout.Pages = append(layout.Pages, Page{
			Band: band,
			X:    g.Margin,
			Y:    g.TopMargin,
			W:    float64(size.X) * layout.Scale,
			H:    float64(band.Dy()) * layout.Scale,
		})
	}
	return layout
}
