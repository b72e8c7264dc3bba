package integrator

import (
	"github.com/df07/go-mirror-raytracer/pkg/core"
)

// MaxBounces is the default bounce budget per pixel
const MaxBounces = 8

// BounceState is the loop state threaded through a pixel's bounces
type BounceState struct {
	Ray      core.Ray
	Radiance core.Vec4
	Bounces  int
	Escaped  bool // last bounce missed all geometry
}

// NewBounceState starts a path from a primary ray
func NewBounceState(ray core.Ray) BounceState {
	return BounceState{Ray: ray}
}

// Done reports whether the path has spent its budget or run out of energy
func (s BounceState) Done(maxBounces int) bool {
	return s.Bounces >= maxBounces || s.Ray.Exhausted()
}

// Step performs one intersect-shade-reflect bounce. The radiance returned
// by shading is weighted by the energy the ray carried into this bounce.
func Step(world World, s BounceState) BounceState {
	hit := Trace(s.Ray, world)
	next, radiance := Shade(world, s.Ray, hit)

	weight := s.Ray.Energy.Vec4(1)
	return BounceState{
		Ray:      next,
		Radiance: s.Radiance.Add(weight.MultiplyVec(radiance)),
		Bounces:  s.Bounces + 1,
		Escaped:  !hit.Hit(),
	}
}

// Radiance runs the bounce loop for a primary ray. The result is fully
// determined by the world and the ray.
func Radiance(world World, ray core.Ray, maxBounces int) BounceState {
	s := NewBounceState(ray)
	for !s.Done(maxBounces) {
		s = Step(world, s)
	}
	return s
}
