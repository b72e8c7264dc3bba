package loaders

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/df07/go-mirror-raytracer/pkg/core"
)

// PBRTStatement is one directive with its parameter list, possibly joined
// from several source lines
type PBRTStatement struct {
	Type       string               // Directive (Camera, Material, Shape, ...)
	Subtype    string               // Quoted subtype (perspective, mirror, sphere, ...)
	Parameters map[string]PBRTParam // Named parameters
	Values     []string             // Bare numeric arguments (LookAt, Translate)
	Line       int                  // Line the statement starts on
}

// PBRTParam is a typed parameter with its raw values
type PBRTParam struct {
	Type   string   // float, integer, rgb, point3, string, bool
	Values []string // Values as written
}

var statementTypes = []string{
	"Camera", "Film", "Sampler", "Integrator", "LookAt",
	"Material", "Shape", "LightSource", "Translate", "Attribute",
}

// isStatementStart reports whether line begins a new directive rather than
// continuing the previous one
func isStatementStart(line string) bool {
	for _, stmt := range statementTypes {
		if strings.HasPrefix(line, stmt+" ") || line == stmt {
			return true
		}
	}
	return false
}

// tokenizePBRT splits a statement into tokens, keeping quoted strings and
// bracketed arrays whole
func tokenizePBRT(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	inBrackets := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, char := range line {
		switch {
		case char == '"' && !inBrackets:
			current.WriteRune(char)
			if inQuotes {
				flush()
			}
			inQuotes = !inQuotes
		case char == '[' && !inQuotes:
			flush()
			current.WriteRune(char)
			inBrackets = true
		case char == ']' && !inQuotes && inBrackets:
			current.WriteRune(char)
			flush()
			inBrackets = false
		case (char == ' ' || char == '\t') && !inQuotes && !inBrackets:
			flush()
		default:
			current.WriteRune(char)
		}
	}
	flush()

	return tokens
}

// parseStatement parses a single, already joined, statement
func parseStatement(line string, lineNumber int) (*PBRTStatement, error) {
	parts := tokenizePBRT(line)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty statement")
	}

	stmt := &PBRTStatement{
		Type:       parts[0],
		Parameters: make(map[string]PBRTParam),
		Line:       lineNumber,
	}
	parts = parts[1:]

	if len(parts) > 0 && isQuoted(parts[0]) && len(strings.Fields(unquote(parts[0]))) == 1 {
		stmt.Subtype = unquote(parts[0])
		parts = parts[1:]
	}

	for i := 0; i < len(parts); i++ {
		if !isQuoted(parts[i]) {
			stmt.Values = append(stmt.Values, strings.Trim(parts[i], "[]"))
			continue
		}

		paramParts := strings.Fields(unquote(parts[i]))
		if len(paramParts) != 2 {
			return nil, fmt.Errorf("malformed parameter declaration %s", parts[i])
		}
		if i+1 >= len(parts) {
			return nil, fmt.Errorf("parameter %q has no value", paramParts[1])
		}
		i++

		var values []string
		if strings.HasPrefix(parts[i], "[") {
			for _, v := range strings.Fields(strings.Trim(parts[i], "[] ")) {
				values = append(values, unquote(v))
			}
		} else {
			values = []string{unquote(parts[i])}
		}

		stmt.Parameters[paramParts[1]] = PBRTParam{Type: paramParts[0], Values: values}
	}

	return stmt, nil
}

func isQuoted(token string) bool {
	return len(token) >= 2 && strings.HasPrefix(token, "\"") && strings.HasSuffix(token, "\"")
}

func unquote(token string) string {
	return strings.Trim(token, "\"")
}

func parseFloats(values []string) ([]float32, error) {
	floats := make([]float32, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", v)
		}
		floats[i] = float32(f)
	}
	return floats, nil
}

// GetFloatsParam returns every value of a numeric parameter
func (stmt *PBRTStatement) GetFloatsParam(name string) ([]float32, bool, error) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return nil, false, nil
	}
	floats, err := parseFloats(param.Values)
	if err != nil {
		return nil, true, fmt.Errorf("parameter %q: %w", name, err)
	}
	return floats, true, nil
}

// GetFloatParam returns a single-valued float parameter
func (stmt *PBRTStatement) GetFloatParam(name string) (float32, bool, error) {
	floats, ok, err := stmt.GetFloatsParam(name)
	if !ok || err != nil {
		return 0, ok, err
	}
	if len(floats) != 1 {
		return 0, true, fmt.Errorf("parameter %q: expected 1 value, got %d", name, len(floats))
	}
	return floats[0], true, nil
}

// GetVec3Param returns an rgb or point3 parameter
func (stmt *PBRTStatement) GetVec3Param(name string) (core.Vec3, bool, error) {
	floats, ok, err := stmt.GetFloatsParam(name)
	if !ok || err != nil {
		return core.Vec3{}, ok, err
	}
	if len(floats) != 3 {
		return core.Vec3{}, true, fmt.Errorf("parameter %q: expected 3 values, got %d", name, len(floats))
	}
	return core.NewVec3(floats[0], floats[1], floats[2]), true, nil
}

// GetIntsParam returns every value of an integer parameter
func (stmt *PBRTStatement) GetIntsParam(name string) ([]int, bool, error) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return nil, false, nil
	}
	ints := make([]int, len(param.Values))
	for i, v := range param.Values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, true, fmt.Errorf("parameter %q: invalid integer %q", name, v)
		}
		ints[i] = n
	}
	return ints, true, nil
}

// GetStringParam returns a string parameter
func (stmt *PBRTStatement) GetStringParam(name string) (string, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return "", false
	}
	return param.Values[0], true
}

// numericArgs parses the bare arguments of LookAt and Translate
func (stmt *PBRTStatement) numericArgs(count int) ([]float32, error) {
	if len(stmt.Values) != count {
		return nil, fmt.Errorf("%s requires %d values, got %d", stmt.Type, count, len(stmt.Values))
	}
	return parseFloats(stmt.Values)
}
