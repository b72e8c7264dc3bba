package renderer

import (
	"errors"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	// ErrNotInitialized is returned when a tracer is used before Initialize
	ErrNotInitialized = errors.New("tracer not initialized")
	// ErrNoScene is returned when rendering before a scene is loaded
	ErrNoScene = errors.New("no scene loaded")
	// ErrNoEnvironment is returned when rendering before a sky is set
	ErrNoEnvironment = errors.New("no environment image set")
	// ErrInvalidDimensions is returned for a non-positive frame size
	ErrInvalidDimensions = errors.New("invalid frame dimensions")
)

// Config contains the settings shared by every tracer backend
type Config struct {
	Width      int     // Frame width in pixels
	Height     int     // Frame height in pixels
	FovDegrees float32 // Vertical field of view of the default projection
	Near       float32 // Near clip plane of the default projection
	Far        float32 // Far clip plane of the default projection
	TileSize   int     // Tile edge length for parallel dispatch
	NumWorkers int     // Number of parallel workers (0 = auto)
	MaxBounces int     // Bounce budget per pixel
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:      640,
		Height:     480,
		FovDegrees: 45,
		Near:       0.1,
		Far:        100,
		TileSize:   32,
		NumWorkers: 0,
		MaxBounces: 8,
	}
}

// DefaultWorkerCount returns the number of physical cores, falling back to
// the logical CPU count when the host cannot be queried.
func DefaultWorkerCount() int {
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
