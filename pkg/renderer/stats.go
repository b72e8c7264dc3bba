package renderer

import (
	"time"

	"github.com/df07/go-mirror-raytracer/pkg/integrator"
)

// RenderStats contains statistics about a rendered frame
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalBounces    int           // Bounces traced across all pixels
	AverageBounces  float64       // Average bounces per pixel
	MaxBouncesUsed  int           // Most bounces taken by any pixel
	EscapedPixels   int           // Pixels whose path ended in the sky
	NonFinitePixels int           // Pixels with NaN or infinite radiance
	Duration        time.Duration // Wall time of the render call
}

// addPixel records one finished path
func (s *RenderStats) addPixel(state integrator.BounceState) {
	s.TotalPixels++
	s.TotalBounces += state.Bounces
	s.MaxBouncesUsed = max(s.MaxBouncesUsed, state.Bounces)
	if state.Escaped {
		s.EscapedPixels++
	}
	if !state.Radiance.IsFinite() {
		s.NonFinitePixels++
	}
}

// Merge folds the counters from another tile into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalBounces += other.TotalBounces
	s.MaxBouncesUsed = max(s.MaxBouncesUsed, other.MaxBouncesUsed)
	s.EscapedPixels += other.EscapedPixels
	s.NonFinitePixels += other.NonFinitePixels
}

// finalize calculates derived statistics after all pixels are rendered
func (s *RenderStats) finalize(duration time.Duration) {
	if s.TotalPixels > 0 {
		s.AverageBounces = float64(s.TotalBounces) / float64(s.TotalPixels)
	}
	s.Duration = duration
}
