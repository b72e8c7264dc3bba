package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/df07/go-mirror-raytracer/pkg/core"
)

var (
	// ErrInvalidMaterialIndex is returned when a primitive references a material that does not exist
	ErrInvalidMaterialIndex = errors.New("material index out of range")
	// ErrGroundWithoutMaterial is returned when the ground plane is enabled on a scene with no materials
	ErrGroundWithoutMaterial = errors.New("ground plane requires at least one material")
)

// Material is the simplified surface model: Specular scales the energy
// carried by a reflected ray, Albedo scales direct light.
type Material struct {
	Specular core.Vec3
	Albedo   core.Vec3
}

// Sphere is an analytic sphere primitive
type Sphere struct {
	Center        core.Vec3
	Radius        float32
	MaterialIndex int
}

// Triangle is a flat-shaded triangle. The winding order of A, B, C
// determines the face normal.
type Triangle struct {
	A, B, C       core.Vec3
	MaterialIndex int
}

// Normal returns the unit face normal (B-A) x (C-A)
func (t Triangle) Normal() core.Vec3 {
	return t.B.Subtract(t.A).Cross(t.C.Subtract(t.A)).Normalize()
}

// Centroid returns the average of the three vertices
func (t Triangle) Centroid() core.Vec3 {
	return t.A.Add(t.B).Add(t.C).Divide(3)
}

// DirectionalLight is a light infinitely far away. Direction points from
// the light toward the scene.
type DirectionalLight struct {
	Direction core.Vec3
	Intensity float32
}

// CameraConfig is the camera a scene recommends for viewing it
type CameraConfig struct {
	Eye        core.Vec3
	Target     core.Vec3
	Up         core.Vec3
	FovDegrees float32
}

// ViewMatrix returns the world-to-camera matrix for this camera
func (c CameraConfig) ViewMatrix() core.Mat4 {
	return core.LookAt(c.Eye, c.Target, c.Up)
}

// DefaultCameraConfig looks down -Z from slightly above the ground plane
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Eye:        core.NewVec3(0, 1, 4),
		Target:     core.NewVec3(0, 1, 0),
		Up:         core.NewVec3(0, 1, 0),
		FovDegrees: 45,
	}
}

// Scene holds the geometry, materials and lighting the tracer renders.
// Primitives and materials are append-only; indices returned by the Add
// methods stay valid for the lifetime of the scene.
type Scene struct {
	SkyFilename      string
	Ground           bool
	DirectionalLight DirectionalLight
	Camera           CameraConfig

	spheres   []Sphere
	triangles []Triangle
	materials []Material
}

// NewScene creates an empty scene with the default camera and a light
// shining straight down.
func NewScene() *Scene {
	return &Scene{
		DirectionalLight: DirectionalLight{Direction: core.NewVec3(0, -1, 0), Intensity: 1},
		Camera:           DefaultCameraConfig(),
	}
}

// AddSphere appends a sphere and returns its index
func (s *Scene) AddSphere(center core.Vec3, radius float32, materialIndex int) int {
	s.spheres = append(s.spheres, Sphere{Center: center, Radius: radius, MaterialIndex: materialIndex})
	return len(s.spheres) - 1
}

// AddTriangle appends a triangle and returns its index
func (s *Scene) AddTriangle(a, b, c core.Vec3, materialIndex int) int {
	s.triangles = append(s.triangles, Triangle{A: a, B: b, C: c, MaterialIndex: materialIndex})
	return len(s.triangles) - 1
}

// AddMaterial appends a material and returns its index
func (s *Scene) AddMaterial(material Material) int {
	s.materials = append(s.materials, material)
	return len(s.materials) - 1
}

// Spheres returns the spheres in insertion order
func (s *Scene) Spheres() []Sphere { return slices.Clip(s.spheres) }

// Triangles returns the triangles in insertion order
func (s *Scene) Triangles() []Triangle { return slices.Clip(s.triangles) }

// Materials returns the materials in insertion order
func (s *Scene) Materials() []Material { return slices.Clip(s.materials) }

// PrimitiveCount returns the number of spheres and triangles
func (s *Scene) PrimitiveCount() int {
	return len(s.spheres) + len(s.triangles)
}

// Validate checks the referential integrity that insertion does not:
// every material index must resolve, and the ground plane needs material 0.
func (s *Scene) Validate() error {
	if s.Ground && len(s.materials) == 0 {
		return ErrGroundWithoutMaterial
	}
	for i, sphere := range s.spheres {
		if sphere.MaterialIndex < 0 || sphere.MaterialIndex >= len(s.materials) {
			return fmt.Errorf("sphere %d: %w: %d of %d", i, ErrInvalidMaterialIndex, sphere.MaterialIndex, len(s.materials))
		}
	}
	for i, tri := range s.triangles {
		if tri.MaterialIndex < 0 || tri.MaterialIndex >= len(s.materials) {
			return fmt.Errorf("triangle %d: %w: %d of %d", i, ErrInvalidMaterialIndex, tri.MaterialIndex, len(s.materials))
		}
	}
	return nil
}
