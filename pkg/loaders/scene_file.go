package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-mirror-raytracer/pkg/core"
	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

// SceneFile is a scene description loaded from disk together with the
// camera and film settings it recommends
type SceneFile struct {
	Scene          *scene.Scene
	Width          int    // Film x resolution, 0 if unspecified
	Height         int    // Film y resolution, 0 if unspecified
	OutputFilename string // Film filename, empty if unspecified
}

// graphicsState is the state saved by AttributeBegin and restored by AttributeEnd
type graphicsState struct {
	materialIndex int
	translation   core.Vec3
}

// sceneParser builds a scene statement by statement
type sceneParser struct {
	file           *SceneFile
	state          graphicsState
	stack          []graphicsState
	inWorld        bool
	statementLines []string
	statementStart int
}

// ParseScene parses a scene description. The result is validated.
func ParseScene(reader io.Reader) (*SceneFile, error) {
	p := &sceneParser{
		file:  &SceneFile{Scene: scene.NewScene()},
		state: graphicsState{materialIndex: -1},
	}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := p.processLine(scanner.Text(), lineNumber); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	if len(p.stack) > 0 {
		return nil, fmt.Errorf("%d unclosed AttributeBegin blocks", len(p.stack))
	}
	if err := p.file.Scene.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	return p.file, nil
}

// LoadScene loads a scene file. A relative sky filename is resolved against
// the scene file's directory.
func LoadScene(filename string) (*SceneFile, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sf, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if sky := sf.Scene.SkyFilename; sky != "" && !filepath.IsAbs(sky) {
		sf.Scene.SkyFilename = filepath.Join(filepath.Dir(filename), sky)
	}
	return sf, nil
}

func (p *sceneParser) processLine(line string, lineNumber int) error {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	switch line {
	case "WorldBegin", "WorldEnd", "AttributeBegin", "AttributeEnd":
		if err := p.flush(); err != nil {
			return err
		}
		return p.block(line, lineNumber)
	}

	if isStatementStart(line) {
		if err := p.flush(); err != nil {
			return err
		}
		p.statementLines = []string{line}
		p.statementStart = lineNumber
		return nil
	}

	if len(p.statementLines) == 0 {
		return fmt.Errorf("line %d: unexpected continuation line: %s", lineNumber, line)
	}
	p.statementLines = append(p.statementLines, line)
	return nil
}

func (p *sceneParser) block(directive string, lineNumber int) error {
	switch directive {
	case "WorldBegin":
		p.inWorld = true
		p.state = graphicsState{materialIndex: -1}
	case "WorldEnd":
		p.inWorld = false
	case "AttributeBegin":
		p.stack = append(p.stack, p.state)
	case "AttributeEnd":
		if len(p.stack) == 0 {
			return fmt.Errorf("line %d: AttributeEnd without AttributeBegin", lineNumber)
		}
		p.state = p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
	}
	return nil
}

// flush parses and applies the accumulated statement, if any
func (p *sceneParser) flush() error {
	if len(p.statementLines) == 0 {
		return nil
	}
	text := strings.Join(p.statementLines, " ")
	p.statementLines = nil

	stmt, err := parseStatement(text, p.statementStart)
	if err != nil {
		return fmt.Errorf("line %d: %w", p.statementStart, err)
	}
	if err := p.apply(stmt); err != nil {
		return fmt.Errorf("line %d: %s: %w", stmt.Line, stmt.Type, err)
	}
	return nil
}

func (p *sceneParser) apply(stmt *PBRTStatement) error {
	s := p.file.Scene

	switch stmt.Type {
	case "LookAt":
		v, err := stmt.numericArgs(9)
		if err != nil {
			return err
		}
		s.Camera.Eye = core.NewVec3(v[0], v[1], v[2])
		s.Camera.Target = core.NewVec3(v[3], v[4], v[5])
		s.Camera.Up = core.NewVec3(v[6], v[7], v[8])
	case "Camera":
		if stmt.Subtype != "perspective" {
			return fmt.Errorf("unsupported camera %q", stmt.Subtype)
		}
		fov, ok, err := stmt.GetFloatParam("fov")
		if err != nil {
			return err
		}
		if ok {
			s.Camera.FovDegrees = fov
		}
	case "Film":
		return p.applyFilm(stmt)
	case "Sampler", "Integrator":
		// Tracing is deterministic with a fixed integrator
	case "Translate":
		v, err := stmt.numericArgs(3)
		if err != nil {
			return err
		}
		p.state.translation = p.state.translation.Add(core.NewVec3(v[0], v[1], v[2]))
	case "Material":
		return p.applyMaterial(stmt)
	case "Shape":
		return p.applyShape(stmt)
	case "LightSource":
		return p.applyLight(stmt)
	case "Attribute":
		if stmt.Subtype != "ground" {
			return fmt.Errorf("unsupported attribute %q", stmt.Subtype)
		}
		s.Ground = true
	default:
		return fmt.Errorf("unsupported directive")
	}
	return nil
}

func (p *sceneParser) applyFilm(stmt *PBRTStatement) error {
	if name, ok := stmt.GetStringParam("filename"); ok {
		p.file.OutputFilename = name
	}
	for _, res := range []struct {
		name string
		dst  *int
	}{{"xresolution", &p.file.Width}, {"yresolution", &p.file.Height}} {
		ints, ok, err := stmt.GetIntsParam(res.name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if len(ints) != 1 || ints[0] <= 0 {
			return fmt.Errorf("%s must be a single positive integer", res.name)
		}
		*res.dst = ints[0]
	}
	return nil
}

func (p *sceneParser) applyMaterial(stmt *PBRTStatement) error {
	if stmt.Subtype != "mirror" {
		return fmt.Errorf("unsupported material %q", stmt.Subtype)
	}
	specular, ok, err := stmt.GetVec3Param("specular")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("mirror material requires \"rgb specular\"")
	}
	albedo, _, err := stmt.GetVec3Param("albedo")
	if err != nil {
		return err
	}

	p.state.materialIndex = p.file.Scene.AddMaterial(scene.Material{Specular: specular, Albedo: albedo})
	return nil
}

func (p *sceneParser) applyShape(stmt *PBRTStatement) error {
	if p.state.materialIndex < 0 {
		return fmt.Errorf("shape %q has no material", stmt.Subtype)
	}
	s := p.file.Scene
	offset := p.state.translation
	m := p.state.materialIndex

	switch stmt.Subtype {
	case "sphere":
		radius, ok, err := stmt.GetFloatParam("radius")
		if err != nil {
			return err
		}
		if !ok {
			radius = 1
		}
		if radius <= 0 {
			return fmt.Errorf("sphere radius must be positive, got %g", radius)
		}
		s.AddSphere(offset, radius, m)
	case "triangle", "trianglemesh":
		points, err := stmt.points()
		if err != nil {
			return err
		}
		indices, ok, err := stmt.GetIntsParam("indices")
		if err != nil {
			return err
		}
		if !ok {
			if len(points) != 3 {
				return fmt.Errorf("%d points without indices, expected 3", len(points))
			}
			indices = []int{0, 1, 2}
		}
		if len(indices)%3 != 0 {
			return fmt.Errorf("index count %d is not a multiple of 3", len(indices))
		}
		for i := 0; i < len(indices); i += 3 {
			tri := indices[i : i+3]
			for _, idx := range tri {
				if idx < 0 || idx >= len(points) {
					return fmt.Errorf("index %d out of range for %d points", idx, len(points))
				}
			}
			s.AddTriangle(points[tri[0]].Add(offset), points[tri[1]].Add(offset), points[tri[2]].Add(offset), m)
		}
	default:
		return fmt.Errorf("unsupported shape %q", stmt.Subtype)
	}
	return nil
}

// points returns the "point3 P" vertex list
func (stmt *PBRTStatement) points() ([]core.Vec3, error) {
	floats, ok, err := stmt.GetFloatsParam("P")
	if err != nil {
		return nil, err
	}
	if !ok || len(floats) == 0 || len(floats)%3 != 0 {
		return nil, fmt.Errorf("\"point3 P\" requires a multiple of 3 values")
	}
	points := make([]core.Vec3, len(floats)/3)
	for i := range points {
		points[i] = core.NewVec3(floats[3*i], floats[3*i+1], floats[3*i+2])
	}
	return points, nil
}

func (p *sceneParser) applyLight(stmt *PBRTStatement) error {
	s := p.file.Scene

	switch stmt.Subtype {
	case "distant":
		from, okFrom, err := stmt.GetVec3Param("from")
		if err != nil {
			return err
		}
		to, okTo, err := stmt.GetVec3Param("to")
		if err != nil {
			return err
		}
		if !okFrom {
			from = core.NewVec3(0, 0, 0)
		}
		if !okTo {
			to = core.NewVec3(0, 0, 1)
		}
		direction := to.Subtract(from)
		if direction.Magnitude() == 0 {
			return fmt.Errorf("distant light from and to coincide")
		}
		scale, ok, err := stmt.GetFloatParam("scale")
		if err != nil {
			return err
		}
		if !ok {
			scale = 1
		}
		s.DirectionalLight = scene.DirectionalLight{Direction: direction.Normalize(), Intensity: scale}
	case "infinite":
		name, ok := stmt.GetStringParam("filename")
		if !ok {
			return fmt.Errorf("infinite light requires \"string filename\"")
		}
		s.SkyFilename = name
	default:
		return fmt.Errorf("unsupported light %q", stmt.Subtype)
	}
	return nil
}

// validateFilePath rejects paths that are not .pbrt files or that contain
// suspicious components
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}
	cleanPath := filepath.Clean(filename)
	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".pbrt") {
		return fmt.Errorf("invalid file type: only .pbrt files are allowed")
	}
	return nil
}

// LoadNamedScene resolves a scene reference: a built-in scene name, a
// "file:<name>" id for <dir>/<name>.pbrt, or a path to a .pbrt file.
func LoadNamedScene(name, dir string) (*SceneFile, error) {
	switch {
	case name == "":
		return nil, fmt.Errorf("scene name cannot be empty")
	case strings.HasPrefix(name, "file:"):
		return LoadScene(filepath.Join(dir, strings.TrimPrefix(name, "file:")+".pbrt"))
	case strings.HasSuffix(strings.ToLower(name), ".pbrt"):
		return LoadScene(name)
	}

	s, err := scene.NewBuiltin(name)
	if err != nil {
		return nil, err
	}
	return &SceneFile{Scene: s}, nil
}
