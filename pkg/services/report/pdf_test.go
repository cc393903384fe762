package report

import (
	"bytes"
	"context"
	"image"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFWriter_Write(t *testing.T) {
	data := testPNG(t, 100, 300)
	raster, err := NewRaster(data)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 300), raster.Size())
	assert.Equal(t, "png", raster.Format)

	layout := Paginate(raster.Size(), A4)
	out, err := NewPDFWriter().Write(context.Background(), raster, layout)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.GreaterOrEqual(t, bytes.Count(out, []byte("/Type /Page")), len(layout.Pages))
}

func TestPDFWriter_Empty(t *testing.T) {
	_, err := NewPDFWriter().Write(context.Background(), nil, Layout{})
	assert.Error(t, err)
}

func TestNewRaster_Invalid(t *testing.T) {
	_, err := NewRaster([]byte("not an image"))
	assert.Error(t, err)
}

func TestCommandRasterizer(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	data := testPNG(t, 20, 40)
	r := &CommandRasterizer{Path: "cat"}

	raster, err := r.Rasterize(context.Background(), string(data), RasterOptions{Width: 595, Scale: 2})

	require.NoError(t, err)
	assert.Equal(t, image.Pt(20, 40), raster.Size())
}

func TestCommandRasterizer_Failure(t *testing.T) {
	r := &CommandRasterizer{Path: "definitely-not-a-real-binary"}
	_, err := r.Rasterize(context.Background(), "<html></html>", RasterOptions{Width: 595, Scale: 2})
	assert.Error(t, err)

	_, err = (&CommandRasterizer{}).Rasterize(context.Background(), "", RasterOptions{})
	assert.Error(t, err)
}
