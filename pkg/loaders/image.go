package loaders

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	"github.com/df07/go-mirror-raytracer/pkg/core"
	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

// DecodeEnvironment decodes a PNG or JPEG sky image. Rows are flipped so
// that row 0 of the environment is the bottom of the picture, and channels
// are normalized to [0, 1] with alpha 1. Color channels are read without
// alpha premultiplication, so transparent pixels keep their color.
func DecodeEnvironment(reader io.Reader) (*scene.Environment, error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec4, width*height)

	for y := 0; y < height; y++ {
		row := height - 1 - y
		for x := 0; x < width; x++ {
			r, g, b := straightRGB(img.At(x+bounds.Min.X, y+bounds.Min.Y))
			pixels[row*width+x] = core.NewVec4(
				float32(r)/65535.0,
				float32(g)/65535.0,
				float32(b)/65535.0,
				1,
			)
		}
	}

	return scene.NewEnvironment(width, height, pixels)
}

// straightRGB returns 16-bit color channels that are not multiplied by alpha
func straightRGB(c color.Color) (r, g, b uint16) {
	if n, ok := c.(color.NRGBA64); ok {
		return n.R, n.G, n.B
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint16(n.R) * 257, uint16(n.G) * 257, uint16(n.B) * 257
}

// LoadEnvironment loads a sky image from disk
func LoadEnvironment(filename string) (*scene.Environment, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	env, err := DecodeEnvironment(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return env, nil
}

// EnvironmentFor returns the sky a scene names, or the default gradient
// sky when it names none
func EnvironmentFor(s *scene.Scene) (*scene.Environment, error) {
	if s.SkyFilename == "" {
		return scene.DefaultEnvironment(), nil
	}
	return LoadEnvironment(s.SkyFilename)
}
