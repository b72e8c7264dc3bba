package integrator

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/df07/go-mirror-raytracer/pkg/core"
	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

// parallelMirrors builds two large inward-facing triangles at z=+1 and z=-1
func parallelMirrors(specular float32) *scene.Scene {
	s := scene.NewScene()
	m := s.AddMaterial(scene.Material{
		Specular: core.NewVec3(specular, specular, specular),
		Albedo:   core.NewVec3(0.1, 0.1, 0.1),
	})
	// Faces -Z
	s.AddTriangle(core.NewVec3(-10, -10, 1), core.NewVec3(-10, 10, 1), core.NewVec3(10, -10, 1), m)
	// Faces +Z
	s.AddTriangle(core.NewVec3(-10, -10, -1), core.NewVec3(10, -10, -1), core.NewVec3(-10, 10, -1), m)
	return s
}

func TestStep_EnergyDecay(t *testing.T) {
	world := testWorld(parallelMirrors(0.5))
	state := NewBounceState(core.NewRay(core.NewVec3(-2, -2, 0), core.NewVec3(0, 0, 1)))

	state = Step(world, state)
	if state.Ray.Energy != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("Expected energy 0.5 after one bounce, got %v", state.Ray.Energy)
	}
	state = Step(world, state)
	if state.Ray.Energy != core.NewVec3(0.25, 0.25, 0.25) {
		t.Errorf("Expected energy 0.25 after two bounces, got %v", state.Ray.Energy)
	}
	if state.Escaped {
		t.Error("Ray should still be trapped between the mirrors")
	}
}

func TestRadiance_EightBouncesGeometricDecay(t *testing.T) {
	world := testWorld(parallelMirrors(0.9))
	state := Radiance(world, core.NewRay(core.NewVec3(-2, -2, 0), core.NewVec3(0, 0, 1)), MaxBounces)

	if state.Bounces != MaxBounces {
		t.Fatalf("Expected %d bounces, got %d", MaxBounces, state.Bounces)
	}
	expected := math32.Pow(0.9, 8)
	for _, channel := range []float32{state.Ray.Energy.X, state.Ray.Energy.Y, state.Ray.Energy.Z} {
		if math32.Abs(channel-expected) > 1e-5 {
			t.Errorf("Expected energy %f, got %f", expected, channel)
		}
	}
}

func TestRadiance_MissTerminatesAfterOneBounce(t *testing.T) {
	sky := core.NewVec3(0.25, 0.5, 0.75)
	world, err := NewWorld(scene.NewScene(), scene.NewUniformEnvironment(sky))
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}

	state := Radiance(world, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), MaxBounces)

	if state.Bounces != 1 {
		t.Errorf("Expected loop to stop after the miss, got %d bounces", state.Bounces)
	}
	if !state.Escaped {
		t.Error("Expected the path to escape")
	}
	if state.Radiance != sky.Vec4(1) {
		t.Errorf("Expected sky radiance %v, got %v", sky.Vec4(1), state.Radiance)
	}
}

func TestRadiance_AccumulatesWeightedBounces(t *testing.T) {
	s := scene.NewScene()
	s.Ground = true
	s.DirectionalLight = scene.DirectionalLight{Direction: core.NewVec3(0, -1, 0), Intensity: 1}
	s.AddMaterial(scene.Material{Specular: core.NewVec3(0.5, 0.5, 0.5), Albedo: core.NewVec3(0.2, 0.2, 0.2)})
	world, err := NewWorld(s, scene.NewUniformEnvironment(core.NewVec3(1, 1, 1)))
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}

	// Straight down: ground lit at full strength, then straight up into the sky
	state := Radiance(world, core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), MaxBounces)

	expected := core.NewVec4(0.7, 0.7, 0.7, 2)
	if !vecNear(state.Radiance.XYZ(), expected.XYZ()) || state.Radiance.W != expected.W {
		t.Errorf("Expected %v, got %v", expected, state.Radiance)
	}
	if state.Bounces != 2 {
		t.Errorf("Expected 2 bounces, got %d", state.Bounces)
	}
}

func TestRadiance_Deterministic(t *testing.T) {
	world := testWorld(scene.NewDefaultScene())
	ray := core.NewRay(core.NewVec3(0, 1.2, 4), core.NewVec3(0.1, -0.3, -1).Normalize())

	first := Radiance(world, ray, MaxBounces)
	second := Radiance(world, ray, MaxBounces)
	if first != second {
		t.Errorf("Expected identical results, got %v and %v", first, second)
	}
}

func TestNewWorld_RejectsInvalidInputs(t *testing.T) {
	bad := scene.NewScene()
	bad.AddSphere(core.NewVec3(0, 0, 0), 1, 3)
	if _, err := NewWorld(bad, scene.DefaultEnvironment()); err == nil {
		t.Error("Expected error for invalid material index")
	}
	if _, err := NewWorld(scene.NewScene(), nil); err == nil {
		t.Error("Expected error for missing sky")
	}
}
