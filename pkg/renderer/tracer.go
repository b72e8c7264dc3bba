package renderer

import (
	"fmt"
	"time"

	"github.com/df07/go-mirror-raytracer/pkg/core"
	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

// PathTracer is the contract every rendering backend implements. Scene and
// sky are bound once and read-only during a frame; the camera may change
// between frames.
type PathTracer interface {
	Initialize() error
	SetDimensions(width, height int) error
	SetViewMatrix(view core.Mat4)
	SetProjectionMatrix(projection core.Mat4)
	SetSky(env *scene.Environment) error
	LoadScene(s *scene.Scene) error
	Render() (RenderStats, error)
	GetPixels() []float32
	Close()
}

// dispatchFunc renders every pixel of a prepared launch
type dispatchFunc func(launch *Launch) (RenderStats, error)

// tracerState holds the host-side state shared by all backends
type tracerState struct {
	config        Config
	logger        core.Logger
	kernel        *Kernel
	initialized   bool
	hasScene      bool
	hasSky        bool
	width, height int
	view          core.Mat4
	projection    core.Mat4
	customProj    bool
	frame         *FrameBuffer
}

func newTracerState(config Config, logger core.Logger) tracerState {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if config.MaxBounces <= 0 {
		config.MaxBounces = DefaultConfig().MaxBounces
	}
	return tracerState{
		config: config,
		logger: logger,
		view:   core.Identity(),
	}
}

func (t *tracerState) initialize(name string) error {
	if t.width == 0 && t.height == 0 {
		if err := t.SetDimensions(t.config.Width, t.config.Height); err != nil {
			return err
		}
	}
	t.kernel = NewKernel(t.config.MaxBounces)
	t.hasScene, t.hasSky = false, false
	t.initialized = true
	t.logger.Printf("%s tracer initialized: %dx%d, kernel ABI v%d, %d max bounces\n",
		name, t.width, t.height, KernelABIVersion, t.config.MaxBounces)
	return nil
}

// SetDimensions resizes the frame and clears it. The default projection follows the new
// aspect ratio unless a projection was set explicitly.
func (t *tracerState) SetDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	t.width, t.height = width, height
	t.frame = NewFrameBuffer(width, height)
	if !t.customProj {
		t.projection = core.Perspective(core.Radians(t.config.FovDegrees),
			float32(width)/float32(height), t.config.Near, t.config.Far)
	}
	return nil
}

// SetViewMatrix sets the world-to-camera matrix used by the next render
func (t *tracerState) SetViewMatrix(view core.Mat4) {
	t.view = view
}

// SetProjectionMatrix overrides the default perspective projection
func (t *tracerState) SetProjectionMatrix(projection core.Mat4) {
	t.projection = projection
	t.customProj = true
}

// SetSky binds the environment image sampled by escaping rays
func (t *tracerState) SetSky(env *scene.Environment) error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if err := env.Validate(); err != nil {
		return err
	}
	if err := t.kernel.bindSky(env); err != nil {
		return err
	}
	t.hasSky = true
	return nil
}

// LoadScene validates the scene and binds its buffers to the kernel
func (t *tracerState) LoadScene(s *scene.Scene) error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if s == nil {
		return ErrNoScene
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid scene: %w", err)
	}
	if err := t.kernel.bindScene(s); err != nil {
		return err
	}
	t.hasScene = true
	t.logger.Printf("Scene loaded: %d spheres, %d triangles, %d materials, ground=%v\n",
		len(s.Spheres()), len(s.Triangles()), len(s.Materials()), s.Ground)
	return nil
}

// render runs one full frame through dispatch. The previous frame is kept
// if anything fails.
func (t *tracerState) render(dispatch dispatchFunc) (RenderStats, error) {
	switch {
	case !t.initialized:
		return RenderStats{}, ErrNotInitialized
	case !t.hasScene:
		return RenderStats{}, ErrNoScene
	case !t.hasSky:
		return RenderStats{}, ErrNoEnvironment
	}

	start := time.Now()

	rays, err := NewRayGenerator(t.view, t.projection, t.width, t.height)
	if err != nil {
		return RenderStats{}, err
	}
	frame := NewFrameBuffer(t.width, t.height)
	if err := t.kernel.SetArg(ArgRays, rays); err != nil {
		return RenderStats{}, err
	}
	if err := t.kernel.SetArg(ArgFrame, frame); err != nil {
		return RenderStats{}, err
	}

	launch, err := t.kernel.Prepare()
	if err != nil {
		return RenderStats{}, err
	}
	stats, err := dispatch(launch)
	if err != nil {
		return RenderStats{}, err
	}
	stats.finalize(time.Since(start))
	t.frame = frame

	t.logger.Printf("Frame %dx%d rendered in %v (%.2f bounces/pixel, %d escaped)\n",
		t.width, t.height, stats.Duration, stats.AverageBounces, stats.EscapedPixels)
	if stats.NonFinitePixels > 0 {
		t.logger.Printf("Warning: %d pixels have non-finite radiance\n", stats.NonFinitePixels)
	}
	return stats, nil
}

// GetPixels returns the last rendered frame as flat RGBA floats, row 0 at the bottom
func (t *tracerState) GetPixels() []float32 {
	if t.frame == nil {
		return nil
	}
	return t.frame.Pixels
}

// Frame returns the last rendered frame buffer
func (t *tracerState) Frame() *FrameBuffer {
	return t.frame
}
