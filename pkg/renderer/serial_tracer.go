package renderer

import "github.com/df07/go-mirror-raytracer/pkg/core"

// SerialTracer renders every pixel on the calling goroutine. It is the
// reference the parallel backend is checked against.
type SerialTracer struct {
	tracerState
}

// NewSerialTracer creates a single-threaded tracer. Call Initialize before use.
func NewSerialTracer(config Config, logger core.Logger) *SerialTracer {
	return &SerialTracer{tracerState: newTracerState(config, logger)}
}

// Initialize sets up the kernel
func (s *SerialTracer) Initialize() error {
	return s.initialize("Serial")
}

// Render traces a full frame
func (s *SerialTracer) Render() (RenderStats, error) {
	return s.render(func(launch *Launch) (RenderStats, error) {
		return launch.RenderBounds(launch.Bounds()), nil
	})
}

// Close releases the tracer
func (s *SerialTracer) Close() {
	s.initialized = false
}

var (
	_ PathTracer = (*CPUTracer)(nil)
	_ PathTracer = (*SerialTracer)(nil)
)
