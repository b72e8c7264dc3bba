package scene

import (
	"errors"
	"testing"

	"github.com/df07/go-mirror-raytracer/pkg/core"
)

func TestScene_AddReturnsStableIndices(t *testing.T) {
	s := NewScene()

	m0 := s.AddMaterial(Material{Albedo: core.NewVec3(1, 0, 0)})
	m1 := s.AddMaterial(Material{Albedo: core.NewVec3(0, 1, 0)})
	if m0 != 0 || m1 != 1 {
		t.Fatalf("Expected material indices 0 and 1, got %d and %d", m0, m1)
	}

	s0 := s.AddSphere(core.NewVec3(0, 0, 0), 1, m1)
	s1 := s.AddSphere(core.NewVec3(2, 0, 0), 0.5, m0)
	t0 := s.AddTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), m0)

	if s0 != 0 || s1 != 1 || t0 != 0 {
		t.Fatalf("Unexpected indices: spheres %d,%d triangle %d", s0, s1, t0)
	}

	// Later additions must not disturb earlier entries
	s.AddMaterial(Material{Albedo: core.NewVec3(0, 0, 1)})
	s.AddSphere(core.NewVec3(5, 5, 5), 2, 2)

	if got := s.Spheres()[s0]; got.Radius != 1 || got.MaterialIndex != m1 {
		t.Errorf("Sphere %d changed after append: %+v", s0, got)
	}
	if got := s.Materials()[m0].Albedo; got != core.NewVec3(1, 0, 0) {
		t.Errorf("Material %d changed after append: %v", m0, got)
	}
	if s.PrimitiveCount() != 4 {
		t.Errorf("Expected 4 primitives, got %d", s.PrimitiveCount())
	}
}

func TestScene_AccessorAppendsDoNotAlias(t *testing.T) {
	s := NewScene()
	m := s.AddMaterial(Material{Albedo: core.NewVec3(1, 1, 1)})
	for i := 0; i < 3; i++ {
		s.AddSphere(core.NewVec3(float32(i), 0, 0), 1, m)
		s.AddTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), m)
	}

	callerSphere := Sphere{Center: core.NewVec3(9, 9, 9), Radius: 9}
	callerTriangle := Triangle{A: core.NewVec3(9, 9, 9)}
	callerMaterial := Material{Specular: core.NewVec3(9, 9, 9)}

	spheres := append(s.Spheres(), callerSphere)
	triangles := append(s.Triangles(), callerTriangle)
	materials := append(s.Materials(), callerMaterial)

	s.AddSphere(core.NewVec3(5, 0, 0), 2, m)
	s.AddTriangle(core.NewVec3(5, 0, 0), core.NewVec3(6, 0, 0), core.NewVec3(5, 1, 0), m)
	s.AddMaterial(Material{Albedo: core.NewVec3(0, 0, 1)})

	if spheres[3] != callerSphere {
		t.Errorf("Caller's sphere overwritten: %+v", spheres[3])
	}
	if triangles[3] != callerTriangle {
		t.Errorf("Caller's triangle overwritten: %+v", triangles[3])
	}
	if materials[1] != callerMaterial {
		t.Errorf("Caller's material overwritten: %+v", materials[1])
	}
	if got := s.Spheres()[3]; got.Radius != 2 {
		t.Errorf("Scene sphere 3 changed by caller append: %+v", got)
	}
	if got := s.Triangles()[3]; got.A != core.NewVec3(5, 0, 0) {
		t.Errorf("Scene triangle 3 changed by caller append: %+v", got)
	}
	if got := s.Materials()[1]; got.Albedo != core.NewVec3(0, 0, 1) {
		t.Errorf("Scene material 1 changed by caller append: %+v", got)
	}
}

func TestScene_Validate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Scene
		wantErr error
	}{
		{
			name:  "empty scene",
			build: NewScene,
		},
		{
			name: "ground without materials",
			build: func() *Scene {
				s := NewScene()
				s.Ground = true
				return s
			},
			wantErr: ErrGroundWithoutMaterial,
		},
		{
			name: "sphere material out of range",
			build: func() *Scene {
				s := NewScene()
				s.AddMaterial(Material{})
				s.AddSphere(core.NewVec3(0, 0, 0), 1, 1)
				return s
			},
			wantErr: ErrInvalidMaterialIndex,
		},
		{
			name: "negative triangle material",
			build: func() *Scene {
				s := NewScene()
				s.AddMaterial(Material{})
				s.AddTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), -1)
				return s
			},
			wantErr: ErrInvalidMaterialIndex,
		},
		{
			name: "valid ground scene",
			build: func() *Scene {
				s := NewScene()
				s.Ground = true
				m := s.AddMaterial(Material{})
				s.AddSphere(core.NewVec3(0, 1, 0), 1, m)
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTriangle_NormalFollowsWinding(t *testing.T) {
	ccw := Triangle{A: core.NewVec3(0, 0, 0), B: core.NewVec3(1, 0, 0), C: core.NewVec3(0, 1, 0)}
	if ccw.Normal() != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected +Z normal, got %v", ccw.Normal())
	}
	cw := Triangle{A: ccw.A, B: ccw.C, C: ccw.B}
	if cw.Normal() != core.NewVec3(0, 0, -1) {
		t.Errorf("Expected -Z normal for reversed winding, got %v", cw.Normal())
	}
}

func TestCameraConfig_ViewMatrix(t *testing.T) {
	cfg := DefaultCameraConfig()
	eye := core.Transform(cfg.ViewMatrix(), cfg.Eye.Vec4(1))
	if eye.XYZ().Magnitude() > 1e-5 {
		t.Errorf("View matrix should map the eye to the origin, got %v", eye)
	}
}
