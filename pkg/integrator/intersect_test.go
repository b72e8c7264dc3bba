package integrator

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/df07/go-mirror-raytracer/pkg/core"
	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

const tolerance = 1e-4

func near(a, b float32) bool {
	return math32.Abs(a-b) <= tolerance
}

func vecNear(a, b core.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func testWorld(s *scene.Scene) World {
	world, err := NewWorld(s, scene.NewUniformEnvironment(core.NewVec3(0.1, 0.2, 0.3)))
	if err != nil {
		panic(err)
	}
	return world
}

func TestHitSphere_AimedAtCenter(t *testing.T) {
	tests := []struct {
		name   string
		origin core.Vec3
		center core.Vec3
		radius float32
	}{
		{"along -Z", core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), 1},
		{"along +X", core.NewVec3(-10, 2, 3), core.NewVec3(0, 2, 3), 2.5},
		{"diagonal", core.NewVec3(4, 4, 4), core.NewVec3(-1, 0, 1), 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewScene()
			m := s.AddMaterial(scene.Material{Albedo: core.NewVec3(1, 1, 1)})
			s.AddSphere(tt.center, tt.radius, m)

			direction := tt.center.Subtract(tt.origin).Normalize()
			hit := Trace(core.NewRay(tt.origin, direction), testWorld(s))

			expected := tt.origin.Subtract(tt.center).Magnitude() - tt.radius
			if !near(hit.Distance, expected) {
				t.Errorf("Expected distance %f, got %f", expected, hit.Distance)
			}
			// The normal points back toward the ray origin, away from the center
			if !vecNear(hit.Normal, direction.Negate()) {
				t.Errorf("Expected normal %v, got %v", direction.Negate(), hit.Normal)
			}
		})
	}
}

func TestHitSphere_MissBeyondRadius(t *testing.T) {
	sphere := scene.Sphere{Center: core.NewVec3(0, 0, 0), Radius: 1}
	ray := core.NewRay(core.NewVec3(1.01, 0, 5), core.NewVec3(0, 0, -1))
	if tHit, ok := HitSphere(ray, sphere); ok {
		t.Errorf("Expected miss for ray offset beyond radius, got t=%f", tHit)
	}
}

func TestHitSphere_FromInsideUsesFarRoot(t *testing.T) {
	sphere := scene.Sphere{Center: core.NewVec3(0, 0, 0), Radius: 2}
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	tHit, ok := HitSphere(ray, sphere)
	if !ok || !near(tHit, 2) {
		t.Errorf("Expected far root at t=2, got %f (hit=%v)", tHit, ok)
	}
}

func TestHitSphere_BehindRay(t *testing.T) {
	sphere := scene.Sphere{Center: core.NewVec3(0, 0, 5), Radius: 1}
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, ok := HitSphere(ray, sphere); ok {
		t.Error("Sphere behind the ray must not be hit")
	}
}

func TestHitSphere_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		sphere scene.Sphere
		ray    core.Ray
	}{
		{
			name:   "zero radius",
			sphere: scene.Sphere{Center: core.NewVec3(0, 0, -3), Radius: 0},
			ray:    core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
		},
		{
			name:   "zero direction",
			sphere: scene.Sphere{Center: core.NewVec3(0, 0, -3), Radius: 1},
			ray:    core.NewRay(core.NewVec3(0, 0, 0), core.Vec3{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tHit, ok := HitSphere(tt.ray, tt.sphere); ok {
				t.Errorf("Expected no hit, got t=%f", tHit)
			}
		})
	}
}

func TestHitTriangle_ThroughCentroid(t *testing.T) {
	tests := []struct {
		name string
		tri  scene.Triangle
	}{
		{
			name: "XY plane",
			tri:  scene.Triangle{A: core.NewVec3(0, 0, 0), B: core.NewVec3(2, 0, 0), C: core.NewVec3(0, 2, 0)},
		},
		{
			name: "tilted",
			tri:  scene.Triangle{A: core.NewVec3(1, 0, 0), B: core.NewVec3(0, 1, 0), C: core.NewVec3(0, 0, 1)},
		},
		{
			name: "reversed winding",
			tri:  scene.Triangle{A: core.NewVec3(0, 0, 0), B: core.NewVec3(0, 2, 0), C: core.NewVec3(2, 0, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewScene()
			m := s.AddMaterial(scene.Material{})
			s.AddTriangle(tt.tri.A, tt.tri.B, tt.tri.C, m)

			normal := tt.tri.B.Subtract(tt.tri.A).Cross(tt.tri.C.Subtract(tt.tri.A)).Normalize()
			origin := tt.tri.Centroid().Add(normal.Multiply(3))
			hit := Trace(core.NewRay(origin, normal.Negate()), testWorld(s))

			if !hit.Hit() || hit.Distance <= 0 {
				t.Fatalf("Expected positive hit, got distance %f", hit.Distance)
			}
			if !near(hit.Distance, 3) {
				t.Errorf("Expected distance 3, got %f", hit.Distance)
			}
			if !vecNear(hit.Normal, normal) {
				t.Errorf("Expected right-hand normal %v, got %v", normal, hit.Normal)
			}
		})
	}
}

func TestHitTriangle_Rejections(t *testing.T) {
	tri := scene.Triangle{A: core.NewVec3(0, 0, 0), B: core.NewVec3(1, 0, 0), C: core.NewVec3(0, 1, 0)}

	tests := []struct {
		name string
		tri  scene.Triangle
		ray  core.Ray
	}{
		{"parallel to plane", tri, core.NewRay(core.NewVec3(0.2, 0.2, 1), core.NewVec3(1, 0, 0))},
		{"outside u", tri, core.NewRay(core.NewVec3(-0.5, 0.2, 1), core.NewVec3(0, 0, -1))},
		{"outside v", tri, core.NewRay(core.NewVec3(0.2, -0.5, 1), core.NewVec3(0, 0, -1))},
		{"u+v beyond hypotenuse", tri, core.NewRay(core.NewVec3(0.6, 0.6, 1), core.NewVec3(0, 0, -1))},
		{"behind the ray", tri, core.NewRay(core.NewVec3(0.2, 0.2, 1), core.NewVec3(0, 0, 1))},
		{
			"collinear vertices",
			scene.Triangle{A: core.NewVec3(0, 0, 0), B: core.NewVec3(1, 1, 0), C: core.NewVec3(2, 2, 0)},
			core.NewRay(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, -1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tHit, ok := HitTriangle(tt.ray, tt.tri); ok {
				t.Errorf("Expected no hit, got t=%f", tHit)
			}
		})
	}
}

func TestHitGroundPlane(t *testing.T) {
	s := scene.NewScene()
	s.Ground = true
	s.AddMaterial(scene.Material{Specular: core.NewVec3(0.5, 0.5, 0.5), Albedo: core.NewVec3(0.3, 0.6, 0.9)})

	hit := Trace(core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0)), testWorld(s))
	if !near(hit.Distance, 2) {
		t.Errorf("Expected distance 2, got %f", hit.Distance)
	}
	if hit.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected up normal, got %v", hit.Normal)
	}
	if hit.Albedo != core.NewVec3(0.3, 0.6, 0.9) {
		t.Errorf("Expected material 0 albedo, got %v", hit.Albedo)
	}

	if _, ok := HitGroundPlane(core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, 1, 0))); ok {
		t.Error("Ray pointing away from the ground must miss")
	}
	if _, ok := HitGroundPlane(core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(1, 0, 0))); ok {
		t.Error("Ray parallel to the ground must miss")
	}
}

func TestTrace_ClosestHitWins(t *testing.T) {
	s := scene.NewScene()
	triMat := s.AddMaterial(scene.Material{Albedo: core.NewVec3(1, 0, 0)})
	sphereMat := s.AddMaterial(scene.Material{Albedo: core.NewVec3(0, 1, 0)})

	// Triangle 5 units away, added first so insertion order cannot decide the winner
	s.AddTriangle(core.NewVec3(-5, -5, -5), core.NewVec3(5, -5, -5), core.NewVec3(0, 5, -5), triMat)
	// Sphere surface 2 units away
	s.AddSphere(core.NewVec3(0, 0, -3), 1, sphereMat)

	hit := Trace(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), testWorld(s))

	if !near(hit.Distance, 2) {
		t.Errorf("Expected distance 2, got %f", hit.Distance)
	}
	if hit.Albedo != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected the sphere's material, got albedo %v", hit.Albedo)
	}
}

func TestTrace_EmptySceneMisses(t *testing.T) {
	hit := Trace(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), testWorld(scene.NewScene()))
	if hit.Hit() {
		t.Errorf("Expected miss, got distance %f", hit.Distance)
	}
	if !math32.IsInf(hit.Distance, 1) {
		t.Errorf("Expected +Inf distance, got %f", hit.Distance)
	}
}
