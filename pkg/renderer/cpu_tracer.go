package renderer

import (
	"fmt"
	"sync"

	"github.com/df07/go-mirror-raytracer/pkg/core"
)

// CPUTracer renders frames by splitting them into tiles and tracing the
// tiles on a pool of worker goroutines. Initialize, Render and Close are
// serialized, so Close waits for an in-flight frame to finish.
type CPUTracer struct {
	tracerState
	mu         sync.Mutex
	workerPool *WorkerPool
}

// NewCPUTracer creates a parallel tracer. Call Initialize before use.
func NewCPUTracer(config Config, logger core.Logger) *CPUTracer {
	return &CPUTracer{tracerState: newTracerState(config, logger)}
}

// Initialize sets up the kernel and starts the worker pool
func (c *CPUTracer) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.initialize("CPU"); err != nil {
		return err
	}
	if c.workerPool == nil {
		c.workerPool = NewWorkerPool(c.config.NumWorkers, 64)
		c.workerPool.Start()
		c.logger.Printf("Using %d workers, %dpx tiles\n", c.workerPool.GetNumWorkers(), c.config.TileSize)
	}
	return nil
}

// Render traces a full frame in parallel
func (c *CPUTracer) Render() (RenderStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render(c.dispatch)
}

func (c *CPUTracer) dispatch(launch *Launch) (RenderStats, error) {
	bounds := launch.Bounds()
	tiles := NewTileGrid(bounds.Dx(), bounds.Dy(), c.config.TileSize)

	pool := c.workerPool
	go func() {
		for i, tile := range tiles {
			pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Launch: launch})
		}
	}()

	var stats RenderStats
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			return RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		stats.Merge(result.Stats)
	}
	return stats, nil
}

// Close stops the worker pool
func (c *CPUTracer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.workerPool != nil {
		c.workerPool.Stop()
		c.workerPool = nil
	}
	c.initialized = false
}
