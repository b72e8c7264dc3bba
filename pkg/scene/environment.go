package scene

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/df07/go-mirror-raytracer/pkg/core"
)

// ErrInvalidEnvironment is returned for an environment image whose pixel
// buffer does not match its dimensions
var ErrInvalidEnvironment = errors.New("invalid environment image")

// Environment is a decoded sky image indexed by ray direction. Pixels are
// row-major with row 0 at the bottom of the picture, so that straight-down
// directions land on row 0.
type Environment struct {
	Width  int
	Height int
	Pixels []core.Vec4
}

// NewEnvironment wraps a decoded pixel buffer
func NewEnvironment(width, height int, pixels []core.Vec4) (*Environment, error) {
	env := &Environment{Width: width, Height: height, Pixels: pixels}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

// Validate checks that the image is non-empty and the buffer is the right size
func (e *Environment) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil", ErrInvalidEnvironment)
	}
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidEnvironment, e.Width, e.Height)
	}
	if len(e.Pixels) != e.Width*e.Height {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidEnvironment, len(e.Pixels), e.Width, e.Height)
	}
	return nil
}

// Coords maps a direction to a (row, col) in the image using a
// longitude/latitude projection. Coordinates truncate toward zero, so a
// direction just left of the seam still lands in column 0. Columns at or
// beyond one pixel left of the seam wrap around, and both indices are
// clamped so the result is always in bounds.
func (e *Environment) Coords(direction core.Vec3) (row, col int) {
	x := 0.5 * math32.Atan2(direction.X, direction.Z) / math32.Pi
	y := math32.Acos(clampUnit(-direction.Y)) / math32.Pi

	col = int(x * float32(e.Width))
	row = int(y * float32(e.Height))
	if col < 0 {
		col += e.Width
	}
	col = max(0, min(e.Width-1, col))
	row = max(0, min(e.Height-1, row))
	return row, col
}

// Sample returns the sky color seen along direction
func (e *Environment) Sample(direction core.Vec3) core.Vec4 {
	row, col := e.Coords(direction)
	return e.Pixels[row*e.Width+col]
}

// NewGradientEnvironment builds a vertical gradient sky, bottom color at
// row 0 blending to top color at the last row.
func NewGradientEnvironment(topColor, bottomColor core.Vec3, width, height int) *Environment {
	pixels := make([]core.Vec4, width*height)
	for row := 0; row < height; row++ {
		t := (float32(row) + 0.5) / float32(height)
		c := bottomColor.Multiply(1 - t).Add(topColor.Multiply(t))
		for col := 0; col < width; col++ {
			pixels[row*width+col] = c.Vec4(1)
		}
	}
	return &Environment{Width: width, Height: height, Pixels: pixels}
}

// NewUniformEnvironment builds a single-color sky
func NewUniformEnvironment(color core.Vec3) *Environment {
	return &Environment{Width: 1, Height: 1, Pixels: []core.Vec4{color.Vec4(1)}}
}

// DefaultEnvironment is the sky used by scenes that do not name an image
func DefaultEnvironment() *Environment {
	return NewGradientEnvironment(
		core.NewVec3(0.5, 0.7, 1.0), // zenith blue
		core.NewVec3(1.0, 1.0, 1.0), // white horizon/ground
		16, 64,
	)
}

func clampUnit(f float32) float32 {
	return max(-1, min(1, f))
}
