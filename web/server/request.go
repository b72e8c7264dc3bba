package server

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-mirror-raytracer/pkg/core"
	"github.com/df07/go-mirror-raytracer/pkg/loaders"
	"github.com/df07/go-mirror-raytracer/pkg/renderer"
)

const (
	maxDimension = 2000
	defaultGamma = 2.2
)

// viewRequest holds the query parameters shared by render and inspect
type viewRequest struct {
	Scene  string
	Width  int // 0 = scene film or default
	Height int
	Eye    *core.Vec3
	Target *core.Vec3
	Gamma  float64
}

// parseViewRequest reads the shared query parameters
func parseViewRequest(query url.Values) (viewRequest, error) {
	req := viewRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}
	if strings.ContainsAny(req.Scene, `/\`) || strings.HasSuffix(req.Scene, ".pbrt") {
		return req, fmt.Errorf("invalid scene %q: use a built-in name or file:<name>", req.Scene)
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, maxDimension); err != nil {
		return req, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, maxDimension); err != nil {
		return req, err
	}
	if req.Gamma, err = parseFloatParam(query, "gamma", defaultGamma, 1, 5); err != nil {
		return req, err
	}
	if req.Eye, err = parseVec3Param(query, "eye"); err != nil {
		return req, err
	}
	if req.Target, err = parseVec3Param(query, "target"); err != nil {
		return req, err
	}
	return req, nil
}

// resolve loads the requested scene and applies the camera overrides
func (r viewRequest) resolve(scenesDir string) (*loaders.SceneFile, renderer.Config, error) {
	sf, err := loaders.LoadNamedScene(r.Scene, scenesDir)
	if err != nil {
		return nil, renderer.Config{}, err
	}
	if r.Eye != nil {
		sf.Scene.Camera.Eye = *r.Eye
	}
	if r.Target != nil {
		sf.Scene.Camera.Target = *r.Target
	}

	if sf.Scene.Camera.Eye == sf.Scene.Camera.Target {
		return nil, renderer.Config{}, fmt.Errorf("camera eye and target must differ")
	}

	config := renderer.DefaultConfig()
	config.Width, config.Height = 400, 300
	if sf.Width > 0 && sf.Height > 0 && sf.Width <= maxDimension && sf.Height <= maxDimension {
		config.Width, config.Height = sf.Width, sf.Height
	}
	if r.Width > 0 {
		config.Width = r.Width
	}
	if r.Height > 0 {
		config.Height = r.Height
	}
	if sf.Scene.Camera.FovDegrees > 0 {
		config.FovDegrees = sf.Scene.Camera.FovDegrees
	}
	return sf, config, nil
}

// parseIntParam parses an integer query parameter with default and bounds
func parseIntParam(query url.Values, name string, defaultValue, min, max int) (int, error) {
	str := query.Get(name)
	if str == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, str)
	}
	if val < min || val > max {
		return 0, fmt.Errorf("%s must be between %d and %d", name, min, max)
	}
	return val, nil
}

// parseFloatParam parses a float query parameter with default and bounds
func parseFloatParam(query url.Values, name string, defaultValue, min, max float64) (float64, error) {
	str := query.Get(name)
	if str == "" {
		return defaultValue, nil
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(val) {
		return 0, fmt.Errorf("invalid %s: %q", name, str)
	}
	if val < min || val > max {
		return 0, fmt.Errorf("%s must be between %g and %g", name, min, max)
	}
	return val, nil
}

// parseVec3Param parses "x,y,z". A missing parameter returns nil.
func parseVec3Param(query url.Values, name string) (*core.Vec3, error) {
	str := query.Get(name)
	if str == "" {
		return nil, nil
	}
	parts := strings.Split(str, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid %s: want x,y,z", name)
	}
	var xyz [3]float32
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("invalid %s: %q", name, str)
		}
		xyz[i] = float32(f)
	}
	v := core.NewVec3(xyz[0], xyz[1], xyz[2])
	return &v, nil
}
