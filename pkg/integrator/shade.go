package integrator

import (
	"github.com/df07/go-mirror-raytracer/pkg/core"
)

// SurfaceOffset lifts a reflected ray off the surface it left so it does
// not immediately re-hit it.
const SurfaceOffset = 1e-3

// Reflect mirrors direction d about the unit normal n
func Reflect(d, n core.Vec3) core.Vec3 {
	return d.Subtract(n.Multiply(2 * d.Dot(n)))
}

// DirectLight returns the albedo lit by the directional light at a surface
// with the given normal, with alpha 1.
func DirectLight(light core.Vec3, intensity float32, normal, albedo core.Vec3) core.Vec4 {
	cosine := max(0, min(1, -normal.Dot(light)))
	return albedo.Multiply(cosine * intensity).Vec4(1)
}

// Shade computes the radiance contributed at this bounce and the ray to
// follow next. On a hit the next ray is the mirror reflection with energy
// attenuated by the surface's specular color. On a miss the sky is sampled
// and the next ray carries no energy.
func Shade(world World, ray core.Ray, hit core.RayHit) (core.Ray, core.Vec4) {
	if !hit.Hit() {
		next := ray
		next.Energy = core.Vec3{}
		return next, world.Sky.Sample(ray.Direction)
	}

	next := core.Ray{
		Origin:    hit.Position.Add(hit.Normal.Multiply(SurfaceOffset)),
		Direction: Reflect(ray.Direction, hit.Normal),
		Energy:    ray.Energy.MultiplyVec(hit.Specular),
	}
	return next, DirectLight(world.Light.Direction, world.Light.Intensity, hit.Normal, hit.Albedo)
}
