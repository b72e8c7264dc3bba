package renderer

import (
	"fmt"

	"github.com/df07/go-mirror-raytracer/pkg/core"
)

// RayGenerator turns pixel coordinates into world-space primary rays. The
// matrix inverses are computed once when the generator is built and reused
// for every pixel of the frame.
type RayGenerator struct {
	width             int
	height            int
	origin            core.Vec3
	cameraToWorld     core.Mat4
	inverseProjection core.Mat4
}

// NewRayGenerator snapshots the camera for one frame. A singular view or
// projection matrix is reported as core.ErrSingularMatrix.
func NewRayGenerator(view, projection core.Mat4, width, height int) (*RayGenerator, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	cameraToWorld, err := core.Inverse(view)
	if err != nil {
		return nil, fmt.Errorf("view matrix: %w", err)
	}
	inverseProjection, err := core.Inverse(projection)
	if err != nil {
		return nil, fmt.Errorf("projection matrix: %w", err)
	}

	return &RayGenerator{
		width:             width,
		height:            height,
		origin:            core.Transform(cameraToWorld, core.NewVec4(0, 0, 0, 1)).XYZ(),
		cameraToWorld:     cameraToWorld,
		inverseProjection: inverseProjection,
	}, nil
}

// Origin returns the camera position shared by every primary ray
func (g *RayGenerator) Origin() core.Vec3 {
	return g.origin
}

// NDC maps a pixel to normalized device coordinates in [-1, 1]
func (g *RayGenerator) NDC(px, py int) (u, v float32) {
	u = 2*(float32(px)/float32(g.width)) - 1
	v = 2*(float32(py)/float32(g.height)) - 1
	return u, v
}

// Ray returns the primary ray for pixel (px, py). Row 0 is the bottom of the frame.
func (g *RayGenerator) Ray(px, py int) core.Ray {
	u, v := g.NDC(px, py)

	viewSpace := core.Transform(g.inverseProjection, core.NewVec4(u, v, 0, 1))
	direction := core.Transform(g.cameraToWorld, viewSpace.XYZ().Vec4(0)).XYZ().Normalize()

	return core.NewRay(g.origin, direction)
}
