package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-mirror-raytracer/pkg/core"
	"github.com/df07/go-mirror-raytracer/pkg/loaders"
	"github.com/df07/go-mirror-raytracer/pkg/renderer"
	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

const (
	headerRenderID     = "X-Render-ID"
	headerRenderMillis = "X-Render-Millis"
)

// handleRender renders one frame and returns it as a PNG
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseViewRequest(c.QueryParams())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sf, config, err := req.resolve(s.config.ScenesDir)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sky, err := loaders.EnvironmentFor(sf.Scene)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	renderID := uuid.New().String()
	logger := NewWebLogger(renderID, c.Logger().Output())
	logger.Printf("Rendering %q at %dx%d", req.Scene, config.Width, config.Height)

	config.NumWorkers = s.config.NumWorkers
	tracer := renderer.NewCPUTracer(config, logger)
	defer tracer.Close()

	stats, err := renderFrame(tracer, sf, sky)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrSingularMatrix) {
			status = http.StatusBadRequest
		}
		return echo.NewHTTPError(status, err.Error())
	}

	var buf bytes.Buffer
	if err := tracer.Frame().WritePNG(&buf, float32(req.Gamma)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	header := c.Response().Header()
	header.Set(headerRenderID, renderID)
	header.Set(headerRenderMillis, strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// renderFrame runs the tracer lifecycle for a loaded scene
func renderFrame(tracer renderer.PathTracer, sf *loaders.SceneFile, sky *scene.Environment) (renderer.RenderStats, error) {
	if err := tracer.Initialize(); err != nil {
		return renderer.RenderStats{}, err
	}
	if err := tracer.LoadScene(sf.Scene); err != nil {
		return renderer.RenderStats{}, err
	}
	if err := tracer.SetSky(sky); err != nil {
		return renderer.RenderStats{}, err
	}
	tracer.SetViewMatrix(sf.Scene.Camera.ViewMatrix())
	return tracer.Render()
}
