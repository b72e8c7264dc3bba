package integrator

import (
	"github.com/chewxy/math32"
	"github.com/df07/go-mirror-raytracer/pkg/core"
	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

// parallelEpsilon rejects rays lying in a triangle's plane
const parallelEpsilon = 1e-8

var groundNormal = core.NewVec3(0, 1, 0)

// HitGroundPlane intersects the ray with the infinite plane y=0
func HitGroundPlane(ray core.Ray) (float32, bool) {
	if ray.Direction.Y == 0 {
		return 0, false
	}
	t := -ray.Origin.Y / ray.Direction.Y
	return t, t > 0
}

// HitSphere returns the nearest positive root of the ray-sphere quadratic.
// The far root is used when the ray starts inside the sphere.
func HitSphere(ray core.Ray, sphere scene.Sphere) (float32, bool) {
	if sphere.Radius <= 0 {
		return 0, false
	}
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return 0, false
	}

	oc := ray.Origin.Subtract(sphere.Center)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - sphere.Radius*sphere.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math32.Sqrt(discriminant)
	t := (-halfB - sqrtD) / a
	if t <= 0 {
		t = (-halfB + sqrtD) / a
	}
	return t, t > 0
}

// HitTriangle intersects the ray with a triangle using the Möller-Trumbore algorithm
func HitTriangle(ray core.Ray, tri scene.Triangle) (float32, bool) {
	edge1 := tri.B.Subtract(tri.A)
	edge2 := tri.C.Subtract(tri.A)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if det > -parallelEpsilon && det < parallelEpsilon {
		return 0, false
	}

	f := 1 / det
	s := ray.Origin.Subtract(tri.A)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t > 0
}

// Trace returns the closest hit along the ray across the ground plane,
// every sphere and every triangle. Material indices are assumed valid;
// NewWorld enforces this.
func Trace(ray core.Ray, world World) core.RayHit {
	best := core.NewRayHit()

	if world.Ground {
		if t, ok := HitGroundPlane(ray); ok && t < best.Distance {
			best = surfaceHit(ray, t, groundNormal, world.Materials[0])
		}
	}

	for _, sphere := range world.Spheres {
		if t, ok := HitSphere(ray, sphere); ok && t < best.Distance {
			position := ray.At(t)
			normal := position.Subtract(sphere.Center).Normalize()
			best = surfaceHit(ray, t, normal, world.Materials[sphere.MaterialIndex])
		}
	}

	for _, tri := range world.Triangles {
		if t, ok := HitTriangle(ray, tri); ok && t < best.Distance {
			best = surfaceHit(ray, t, tri.Normal(), world.Materials[tri.MaterialIndex])
		}
	}

	return best
}

func surfaceHit(ray core.Ray, t float32, normal core.Vec3, material scene.Material) core.RayHit {
	return core.RayHit{
		Position: ray.At(t),
		Distance: t,
		Normal:   normal,
		Specular: material.Specular,
		Albedo:   material.Albedo,
	}
}
