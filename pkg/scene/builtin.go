package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-mirror-raytracer/pkg/core"
)

// builtinScenes maps scene names to their constructors
var builtinScenes = map[string]func() *Scene{
	"default":    NewDefaultScene,
	"mirror-box": NewMirrorBoxScene,
}

// BuiltinNames returns the names of all built-in scenes, sorted
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBuiltin creates the named built-in scene
func NewBuiltin(name string) (*Scene, error) {
	ctor, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %q", name)
	}
	return ctor(), nil
}

// AddQuad adds the planar quad a-b-c-d as two triangles sharing the
// winding of a, b, c.
func (s *Scene) AddQuad(a, b, c, d core.Vec3, materialIndex int) {
	s.AddTriangle(a, b, c, materialIndex)
	s.AddTriangle(a, c, d, materialIndex)
}

// NewDefaultScene creates a row of spheres on the ground plane in front of a mirror panel
func NewDefaultScene() *Scene {
	s := NewScene()
	s.Ground = true
	s.DirectionalLight = DirectionalLight{
		Direction: core.NewVec3(0.4, -1, -0.6).Normalize(),
		Intensity: 1.0,
	}
	s.Camera = CameraConfig{
		Eye:        core.NewVec3(0, 1.2, 4),
		Target:     core.NewVec3(0, 0.5, 0),
		Up:         core.NewVec3(0, 1, 0),
		FovDegrees: 45,
	}

	// Material 0 is the ground plane
	s.AddMaterial(Material{Specular: core.NewVec3(0.2, 0.2, 0.2), Albedo: core.NewVec3(0.6, 0.6, 0.6)})
	chrome := s.AddMaterial(Material{Specular: core.NewVec3(0.9, 0.9, 0.9), Albedo: core.NewVec3(0.05, 0.05, 0.05)})
	gold := s.AddMaterial(Material{Specular: core.NewVec3(1.0, 0.78, 0.34), Albedo: core.NewVec3(0.1, 0.08, 0.02)})
	red := s.AddMaterial(Material{Specular: core.NewVec3(0.04, 0.04, 0.04), Albedo: core.NewVec3(0.8, 0.1, 0.1)})
	mirror := s.AddMaterial(Material{Specular: core.NewVec3(0.8, 0.85, 0.9), Albedo: core.NewVec3(0, 0, 0)})

	s.AddSphere(core.NewVec3(-1.5, 0.5, 0), 0.5, chrome)
	s.AddSphere(core.NewVec3(0, 0.5, 0), 0.5, gold)
	s.AddSphere(core.NewVec3(1.5, 0.5, 0), 0.5, red)
	s.AddSphere(core.NewVec3(0.75, 0.25, 1), 0.25, chrome)

	s.AddQuad(
		core.NewVec3(-1.5, 0, -2),
		core.NewVec3(1.5, 0, -2),
		core.NewVec3(1.5, 1.5, -2),
		core.NewVec3(-1.5, 1.5, -2),
		mirror,
	)

	return s
}

// NewMirrorBoxScene places a sphere between two facing mirrors so rays
// exhaust the full bounce budget.
func NewMirrorBoxScene() *Scene {
	s := NewScene()
	s.Ground = true
	s.DirectionalLight = DirectionalLight{
		Direction: core.NewVec3(-0.3, -1, -0.2).Normalize(),
		Intensity: 0.9,
	}
	s.Camera = CameraConfig{
		Eye:        core.NewVec3(0, 1, 5),
		Target:     core.NewVec3(0, 0.8, 0),
		Up:         core.NewVec3(0, 1, 0),
		FovDegrees: 50,
	}

	s.AddMaterial(Material{Specular: core.NewVec3(0.1, 0.1, 0.1), Albedo: core.NewVec3(0.5, 0.5, 0.45)})
	mirror := s.AddMaterial(Material{Specular: core.NewVec3(0.95, 0.95, 0.95), Albedo: core.NewVec3(0.02, 0.02, 0.02)})
	blue := s.AddMaterial(Material{Specular: core.NewVec3(0.3, 0.3, 0.5), Albedo: core.NewVec3(0.1, 0.2, 0.7)})

	// Left wall faces +X, right wall faces -X
	s.AddQuad(
		core.NewVec3(-2, 0, -2),
		core.NewVec3(-2, 2, -2),
		core.NewVec3(-2, 2, 2),
		core.NewVec3(-2, 0, 2),
		mirror,
	)
	s.AddQuad(
		core.NewVec3(2, 0, -2),
		core.NewVec3(2, 0, 2),
		core.NewVec3(2, 2, 2),
		core.NewVec3(2, 2, -2),
		mirror,
	)

	s.AddSphere(core.NewVec3(0, 0.75, 0), 0.75, blue)

	return s
}
