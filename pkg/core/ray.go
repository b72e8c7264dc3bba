package core

import "github.com/chewxy/math32"

// Ray carries an origin, a direction and the throughput still left after
// the surfaces it has bounced off.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Energy    Vec3
}

// NewRay creates a ray with full energy
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, Energy: Vec3{1, 1, 1}}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Exhausted reports whether any energy channel has dropped to exactly zero
func (r Ray) Exhausted() bool {
	return r.Energy.AnyZero()
}

// RayHit describes the closest intersection found along a ray.
// Distance is +Inf when nothing was hit.
type RayHit struct {
	Position Vec3
	Distance float32
	Normal   Vec3
	Specular Vec3
	Albedo   Vec3
}

// NewRayHit returns the "no intersection" sentinel
func NewRayHit() RayHit {
	return RayHit{Distance: math32.Inf(1)}
}

// Hit reports whether the record holds an intersection
func (h RayHit) Hit() bool {
	return h.Distance < math32.Inf(1)
}
