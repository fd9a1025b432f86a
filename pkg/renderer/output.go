package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/fogleman/gg"
)

// Sink receives finished scanlines in emission order (top row first)
type Sink interface {
	Begin(width, height int) error
	WriteRow(row []core.Vec3) error
	End() error
}

// ToRGB converts an averaged linear color to 8-bit channels with gamma 2
func ToRGB(c core.Vec3) (r, g, b int) {
	return encodeChannel(c.X), encodeChannel(c.Y), encodeChannel(c.Z)
}

func encodeChannel(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	v = math.Sqrt(v)
	if v > 0.999 {
		v = 0.999
	}
	return int(256 * v)
}

// PPMWriter emits plain-text PPM (P3)
type PPMWriter struct {
	w *bufio.Writer
}

// NewPPMWriter creates a PPM sink writing to w
func NewPPMWriter(w io.Writer) *PPMWriter {
	return &PPMWriter{w: bufio.NewWriter(w)}
}

// Begin writes the header
func (p *PPMWriter) Begin(width, height int) error {
	_, err := fmt.Fprintf(p.w, "P3\n%d %d\n255\n", width, height)
	return err
}

// WriteRow writes one "R G B" line per pixel
func (p *PPMWriter) WriteRow(row []core.Vec3) error {
	for _, c := range row {
		r, g, b := ToRGB(c)
		if _, err := fmt.Fprintf(p.w, "%d %d %d\n", r, g, b); err != nil {
			return err
		}
	}
	return nil
}

// End flushes buffered output
func (p *PPMWriter) End() error {
	return p.w.Flush()
}

// ImageWriter collects scanlines into an in-memory image
type ImageWriter struct {
	img  *image.RGBA
	next int
}

// NewImageWriter creates an empty collector
func NewImageWriter() *ImageWriter {
	return &ImageWriter{}
}

// Begin allocates the image
func (iw *ImageWriter) Begin(width, height int) error {
	iw.img = image.NewRGBA(image.Rect(0, 0, width, height))
	iw.next = 0
	return nil
}

// WriteRow stores the next row, top to bottom
func (iw *ImageWriter) WriteRow(row []core.Vec3) error {
	if iw.img == nil {
		return fmt.Errorf("image writer: WriteRow before Begin")
	}
	if iw.next >= iw.img.Bounds().Dy() {
		return fmt.Errorf("image writer: too many rows (height %d)", iw.img.Bounds().Dy())
	}
	if len(row) != iw.img.Bounds().Dx() {
		return fmt.Errorf("image writer: row %d has %d pixels, want %d", iw.next, len(row), iw.img.Bounds().Dx())
	}
	for x, c := range row {
		r, g, b := ToRGB(c)
		iw.img.SetRGBA(x, iw.next, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
	}
	iw.next++
	return nil
}

// End is a no-op
func (iw *ImageWriter) End() error {
	return nil
}

// Image returns the collected image, nil before Begin
func (iw *ImageWriter) Image() *image.RGBA {
	return iw.img
}

// PNGWriter collects scanlines and encodes a PNG on End
type PNGWriter struct {
	ImageWriter
	w io.Writer
}

// NewPNGWriter creates a PNG sink writing to w
func NewPNGWriter(w io.Writer) *PNGWriter {
	return &PNGWriter{w: w}
}

// End encodes the collected image
func (p *PNGWriter) End() error {
	if p.img == nil {
		return fmt.Errorf("png writer: nothing rendered")
	}
	dc := gg.NewContextForRGBA(p.img)
	if err := dc.EncodePNG(p.w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
