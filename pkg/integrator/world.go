package integrator

import (
	"fmt"

	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

// World is the read-only data a frame is traced against. It is shared by
// every pixel and never mutated during a render.
type World struct {
	Ground    bool
	Spheres   []scene.Sphere
	Triangles []scene.Triangle
	Materials []scene.Material
	Light     scene.DirectionalLight
	Sky       *scene.Environment
}

// NewWorld snapshots a validated scene and sky for tracing
func NewWorld(s *scene.Scene, sky *scene.Environment) (World, error) {
	if err := s.Validate(); err != nil {
		return World{}, fmt.Errorf("invalid scene: %w", err)
	}
	if err := sky.Validate(); err != nil {
		return World{}, fmt.Errorf("invalid sky: %w", err)
	}
	return World{
		Ground:    s.Ground,
		Spheres:   s.Spheres(),
		Triangles: s.Triangles(),
		Materials: s.Materials(),
		Light:     s.DirectionalLight,
		Sky:       sky,
	}, nil
}
