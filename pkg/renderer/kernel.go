package renderer

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/df07/go-mirror-raytracer/pkg/integrator"
	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

// KernelABIVersion identifies the argument layout below. Any change to the
// slot order or slot types must bump it.
const KernelABIVersion = 1

// ErrKernelArgument is returned for a missing or mistyped kernel argument
var ErrKernelArgument = errors.New("kernel argument error")

// ArgSlot is a binding position in the per-pixel kernel's argument list
type ArgSlot int

const (
	ArgRays ArgSlot = iota
	ArgSky
	ArgFrame
	ArgSpheres
	ArgTriangles
	ArgMaterials
	ArgGround
	ArgLight
	ArgSkyWidth
	ArgSkyHeight
	ArgNumSpheres
	ArgNumTriangles
	NumArgSlots
)

type argSpec struct {
	name  string
	check func(v any) bool
}

func isType[T any](v any) bool {
	_, ok := v.(T)
	return ok
}

func isNonNil[T any](v any) bool {
	p, ok := v.(*T)
	return ok && p != nil
}

var argTable = [NumArgSlots]argSpec{
	ArgRays:         {"rays", isNonNil[RayGenerator]},
	ArgSky:          {"sky", isNonNil[scene.Environment]},
	ArgFrame:        {"frame", isNonNil[FrameBuffer]},
	ArgSpheres:      {"spheres", isType[[]scene.Sphere]},
	ArgTriangles:    {"triangles", isType[[]scene.Triangle]},
	ArgMaterials:    {"materials", isType[[]scene.Material]},
	ArgGround:       {"ground", isType[bool]},
	ArgLight:        {"light", isType[scene.DirectionalLight]},
	ArgSkyWidth:     {"skyWidth", isType[int]},
	ArgSkyHeight:    {"skyHeight", isType[int]},
	ArgNumSpheres:   {"numSpheres", isType[int]},
	ArgNumTriangles: {"numTriangles", isType[int]},
}

func (s ArgSlot) String() string {
	if s < 0 || s >= NumArgSlots {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return argTable[s].name
}

// Kernel is the per-pixel tracing program with its bound arguments.
// Scene buffers are bound once per scene, rays and frame once per render.
type Kernel struct {
	MaxBounces int

	args  [NumArgSlots]any
	bound [NumArgSlots]bool
}

// NewKernel creates a kernel with no arguments bound
func NewKernel(maxBounces int) *Kernel {
	return &Kernel{MaxBounces: maxBounces}
}

// SetArg binds value to slot after checking it against the argument table
func (k *Kernel) SetArg(slot ArgSlot, value any) error {
	if slot < 0 || slot >= NumArgSlots {
		return fmt.Errorf("%w: unknown %v", ErrKernelArgument, slot)
	}
	if !argTable[slot].check(value) {
		return fmt.Errorf("%w: %v cannot take %T", ErrKernelArgument, slot, value)
	}
	k.args[slot] = value
	k.bound[slot] = true
	return nil
}

// Unbound lists the slots that have no argument yet
func (k *Kernel) Unbound() []ArgSlot {
	var missing []ArgSlot
	for slot := ArgSlot(0); slot < NumArgSlots; slot++ {
		if !k.bound[slot] {
			missing = append(missing, slot)
		}
	}
	return missing
}

// Ready reports an error naming every unbound slot
func (k *Kernel) Ready() error {
	missing := k.Unbound()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, slot := range missing {
		names[i] = slot.String()
	}
	return fmt.Errorf("%w: unbound %s", ErrKernelArgument, strings.Join(names, ", "))
}

// bindScene binds every scene buffer slot
func (k *Kernel) bindScene(s *scene.Scene) error {
	bindings := []struct {
		slot  ArgSlot
		value any
	}{
		{ArgSpheres, s.Spheres()},
		{ArgTriangles, s.Triangles()},
		{ArgMaterials, s.Materials()},
		{ArgGround, s.Ground},
		{ArgLight, s.DirectionalLight},
		{ArgNumSpheres, len(s.Spheres())},
		{ArgNumTriangles, len(s.Triangles())},
	}
	for _, b := range bindings {
		if err := k.SetArg(b.slot, b.value); err != nil {
			return err
		}
	}
	return nil
}

// bindSky binds the environment image and its dimensions
func (k *Kernel) bindSky(env *scene.Environment) error {
	if err := k.SetArg(ArgSky, env); err != nil {
		return err
	}
	if err := k.SetArg(ArgSkyWidth, env.Width); err != nil {
		return err
	}
	return k.SetArg(ArgSkyHeight, env.Height)
}

// Launch is a kernel invocation with its arguments frozen for one frame
type Launch struct {
	world      integrator.World
	rays       *RayGenerator
	frame      *FrameBuffer
	maxBounces int
}

// Prepare checks that every slot is bound and consistent and freezes the
// arguments for a frame.
func (k *Kernel) Prepare() (*Launch, error) {
	if err := k.Ready(); err != nil {
		return nil, err
	}

	sky := k.args[ArgSky].(*scene.Environment)
	spheres := k.args[ArgSpheres].([]scene.Sphere)
	triangles := k.args[ArgTriangles].([]scene.Triangle)
	materials := k.args[ArgMaterials].([]scene.Material)

	if n := k.args[ArgNumSpheres].(int); n != len(spheres) {
		return nil, fmt.Errorf("%w: numSpheres %d for %d spheres", ErrKernelArgument, n, len(spheres))
	}
	if n := k.args[ArgNumTriangles].(int); n != len(triangles) {
		return nil, fmt.Errorf("%w: numTriangles %d for %d triangles", ErrKernelArgument, n, len(triangles))
	}
	if w, h := k.args[ArgSkyWidth].(int), k.args[ArgSkyHeight].(int); w != sky.Width || h != sky.Height {
		return nil, fmt.Errorf("%w: sky size %dx%d for %dx%d image", ErrKernelArgument, w, h, sky.Width, sky.Height)
	}

	ground := k.args[ArgGround].(bool)
	if err := checkMaterialRefs(ground, spheres, triangles, len(materials)); err != nil {
		return nil, err
	}

	rays := k.args[ArgRays].(*RayGenerator)
	frame := k.args[ArgFrame].(*FrameBuffer)
	if rays.width != frame.Width || rays.height != frame.Height {
		return nil, fmt.Errorf("%w: rays for %dx%d, frame is %dx%d", ErrKernelArgument, rays.width, rays.height, frame.Width, frame.Height)
	}

	return &Launch{
		world: integrator.World{
			Ground:    ground,
			Spheres:   spheres,
			Triangles: triangles,
			Materials: materials,
			Light:     k.args[ArgLight].(scene.DirectionalLight),
			Sky:       sky,
		},
		rays:       rays,
		frame:      frame,
		maxBounces: k.MaxBounces,
	}, nil
}

// checkMaterialRefs rejects buffers that index past the material buffer
func checkMaterialRefs(ground bool, spheres []scene.Sphere, triangles []scene.Triangle, numMaterials int) error {
	if ground && numMaterials == 0 {
		return fmt.Errorf("%w: %w", ErrKernelArgument, scene.ErrGroundWithoutMaterial)
	}
	for i, sphere := range spheres {
		if sphere.MaterialIndex < 0 || sphere.MaterialIndex >= numMaterials {
			return fmt.Errorf("%w: sphere %d: %w", ErrKernelArgument, i, scene.ErrInvalidMaterialIndex)
		}
	}
	for i, tri := range triangles {
		if tri.MaterialIndex < 0 || tri.MaterialIndex >= numMaterials {
			return fmt.Errorf("%w: triangle %d: %w", ErrKernelArgument, i, scene.ErrInvalidMaterialIndex)
		}
	}
	return nil
}

// RenderBounds traces every pixel inside bounds into the frame. Each pixel
// writes only its own slot, so disjoint bounds may run concurrently.
func (l *Launch) RenderBounds(bounds image.Rectangle) RenderStats {
	var stats RenderStats
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			state := integrator.Radiance(l.world, l.rays.Ray(x, y), l.maxBounces)
			l.frame.Set(x, y, state.Radiance)
			stats.addPixel(state)
		}
	}
	return stats
}

// Bounds returns the full frame rectangle
func (l *Launch) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.frame.Width, l.frame.Height)
}
