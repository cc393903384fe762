package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os/exec"
	"strconv"
	"strings"
)

type RasterOptions struct {
	Width int
	Scale float64
}

// Raster is an encoded image of a snapshot plus its pixel size.
type Raster struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

func (r *Raster) Size() image.Point {
	return image.Pt(r.Width, r.Height)
}

// NewRaster reads the pixel size out of encoded image data.
func NewRaster(data []byte) (*Raster, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode raster: %w", err)
	}
	return &Raster{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

type Rasterizer interface {
	Rasterize(ctx context.Context, markup string, opts RasterOptions) (*Raster, error)
}

// CommandRasterizer pipes markup through an external HTML to PNG converter.
// Arguments may use the {width}, {scale} and {pixel_width} placeholders.
type CommandRasterizer struct {
	Path string
	Args []string
}

func DefaultCommandRasterizer() *CommandRasterizer {
	return &CommandRasterizer{
		Path: "wkhtmltoimage",
		Args: []string{"--quiet", "--format", "png", "--width", "{width}", "--zoom", "{scale}", "-", "-"},
	}
}

func (c *CommandRasterizer) Rasterize(ctx context.Context, markup string, opts RasterOptions) (*Raster, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("rasterizer command not configured")
	}
	replacer := strings.NewReplacer(
		"{width}", strconv.Itoa(opts.Width),
		"{scale}", strconv.FormatFloat(opts.Scale, 'f', -1, 64),
		"{pixel_width}", strconv.Itoa(int(float64(opts.Width)*opts.Scale)),
	)
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = replacer.Replace(a)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdin = strings.NewReader(markup)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to run %s: %w: %s", c.Path, err, strings.TrimSpace(stderr.String()))
	}
	return NewRaster(stdout.Bytes())
}
