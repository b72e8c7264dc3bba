package server

import (
	"errors"
	"net/http"

	"github.com/chewxy/math32"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-mirror-raytracer/pkg/core"
	"github.com/df07/go-mirror-raytracer/pkg/integrator"
	"github.com/df07/go-mirror-raytracer/pkg/loaders"
	"github.com/df07/go-mirror-raytracer/pkg/renderer"
)

// InspectResponse describes what the primary ray through a pixel hits
type InspectResponse struct {
	Hit            bool        `json:"hit"`
	GeometryType   string      `json:"geometryType,omitempty"` // "ground", "sphere", "triangle"
	PrimitiveIndex int         `json:"primitiveIndex"`
	MaterialIndex  int         `json:"materialIndex"`
	Point          [3]float32  `json:"point"`
	Normal         [3]float32  `json:"normal"`
	Distance       float32     `json:"distance"`
	Specular       [3]float32  `json:"specular"`
	Albedo         [3]float32  `json:"albedo"`
	Path           PathSummary `json:"path"`
}

// PathSummary is the outcome of the full bounce loop for the pixel
type PathSummary struct {
	Bounces  int        `json:"bounces"`
	Escaped  bool       `json:"escaped"`
	Radiance [4]float32 `json:"radiance"`
	Finite   bool       `json:"finite"`
}

// handleInspect traces the primary ray through pixel (x, y), with y
// counted from the top of the image as displayed.
func (s *Server) handleInspect(c echo.Context) error {
	query := c.QueryParams()
	req, err := parseViewRequest(query)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sf, config, err := req.resolve(s.config.ScenesDir)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	x, err := parseIntParam(query, "x", -1, 0, config.Width-1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	y, err := parseIntParam(query, "y", -1, 0, config.Height-1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if x < 0 || y < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "x and y are required")
	}

	sky, err := loaders.EnvironmentFor(sf.Scene)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	world, err := integrator.NewWorld(sf.Scene, sky)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	projection := core.Perspective(core.Radians(config.FovDegrees),
		float32(config.Width)/float32(config.Height), config.Near, config.Far)
	rays, err := renderer.NewRayGenerator(sf.Scene.Camera.ViewMatrix(), projection, config.Width, config.Height)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrSingularMatrix) {
			status = http.StatusBadRequest
		}
		return echo.NewHTTPError(status, err.Error())
	}

	ray := rays.Ray(x, config.Height-1-y)
	return c.JSON(http.StatusOK, inspectRay(world, ray, config.MaxBounces))
}

// inspectRay reports the closest hit along ray and the path it starts
func inspectRay(world integrator.World, ray core.Ray, maxBounces int) InspectResponse {
	response := InspectResponse{PrimitiveIndex: -1, MaterialIndex: -1}

	state := integrator.Radiance(world, ray, maxBounces)
	r := state.Radiance
	response.Path = PathSummary{
		Bounces: state.Bounces,
		Escaped: state.Escaped,
		Finite:  finite(r.X) && finite(r.Y) && finite(r.Z) && finite(r.W),
	}
	if response.Path.Finite {
		response.Path.Radiance = [4]float32{r.X, r.Y, r.Z, r.W}
	}

	hit := integrator.Trace(ray, world)
	if !hit.Hit() {
		return response
	}
	response.Hit = true
	response.GeometryType, response.PrimitiveIndex, response.MaterialIndex = identifyHit(world, ray, hit.Distance)
	response.Point = vec3Array(hit.Position)
	response.Normal = vec3Array(hit.Normal)
	response.Distance = hit.Distance
	response.Specular = vec3Array(hit.Specular)
	response.Albedo = vec3Array(hit.Albedo)
	return response
}

// identifyHit finds the primitive whose intersection distance matches
// the closest hit. Trace visits the ground, then spheres, then triangles
// and keeps the first strictly closer hit, so the first exact match in
// the same order is the primitive it chose.
func identifyHit(world integrator.World, ray core.Ray, distance float32) (string, int, int) {
	if world.Ground {
		if t, ok := integrator.HitGroundPlane(ray); ok && t == distance {
			return "ground", 0, 0
		}
	}
	for i, sphere := range world.Spheres {
		if t, ok := integrator.HitSphere(ray, sphere); ok && t == distance {
			return "sphere", i, sphere.MaterialIndex
		}
	}
	for i, tri := range world.Triangles {
		if t, ok := integrator.HitTriangle(ray, tri); ok && t == distance {
			return "triangle", i, tri.MaterialIndex
		}
	}
	return "unknown", -1, -1
}

func vec3Array(v core.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
