package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/chewxy/math32"
	"github.com/df07/go-mirror-raytracer/pkg/core"
)

// FrameBuffer is a flat RGBA float buffer, row-major with row 0 at the bottom
type FrameBuffer struct {
	Width  int
	Height int
	Pixels []float32
}

// NewFrameBuffer allocates a zeroed frame
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]float32, width*height*4),
	}
}

// Set writes the RGBA value of pixel (x, y)
func (f *FrameBuffer) Set(x, y int, c core.Vec4) {
	i := (y*f.Width + x) * 4
	f.Pixels[i] = c.X
	f.Pixels[i+1] = c.Y
	f.Pixels[i+2] = c.Z
	f.Pixels[i+3] = c.W
}

// At returns the RGBA value of pixel (x, y)
func (f *FrameBuffer) At(x, y int) core.Vec4 {
	i := (y*f.Width + x) * 4
	return core.NewVec4(f.Pixels[i], f.Pixels[i+1], f.Pixels[i+2], f.Pixels[i+3])
}

// ToImage converts the frame to a top-down 8-bit image. Channels are
// clamped to [0, 1]; a gamma above 1 applies 1/gamma correction.
func (f *FrameBuffer) ToImage(gamma float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y)
			img.SetRGBA(x, f.Height-1-y, color.RGBA{
				R: toByte(c.X, gamma),
				G: toByte(c.Y, gamma),
				B: toByte(c.Z, gamma),
				A: 255,
			})
		}
	}
	return img
}

// WritePNG encodes the frame as a PNG
func (f *FrameBuffer) WritePNG(w io.Writer, gamma float32) error {
	if err := png.Encode(w, f.ToImage(gamma)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

func toByte(c, gamma float32) uint8 {
	if math32.IsNaN(c) {
		c = 0
	}
	c = max(0, min(1, c))
	if gamma > 1 {
		c = math32.Pow(c, 1/gamma)
	}
	return uint8(255*c + 0.5)
}
