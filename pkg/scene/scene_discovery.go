package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo describes a scene that can be rendered by name
type SceneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`     // "builtin" or "file"
	FilePath    string `json:"filePath"` // file scenes only
}

var builtinDescriptions = map[string]string{
	"default":    "Spheres on a ground plane in front of a mirror panel",
	"mirror-box": "Sphere between two facing mirrors",
}

// ListSceneFiles scans dir for .pbrt scene files. A missing directory is
// not an error and yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.pbrt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, path := range files {
		info, err := ParseSceneMetadata(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata for %s: %w", path, err)
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata reads "# Scene:" and "# Description:" header comments
// from a scene file. Fields fall back to values derived from the filename.
func ParseSceneMetadata(path string) (SceneInfo, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	info := SceneInfo{
		ID:       "file:" + base,
		Name:     titleCase(base),
		Type:     "file",
		FilePath: path,
	}

	file, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}
		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		switch {
		case strings.HasPrefix(content, "Scene:"):
			info.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
		case strings.HasPrefix(content, "Description:"):
			info.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		}
	}

	return info, scanner.Err()
}

// ListAllScenes returns the built-in scenes followed by the scene files found in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	var all []SceneInfo
	for _, name := range BuiltinNames() {
		all = append(all, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			Description: builtinDescriptions[name],
			Type:        "builtin",
		})
	}

	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(all, files...), nil
}

// titleCase converts a filename-style string to title case,
// e.g. "mirror-box" -> "Mirror Box"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
