package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name passed to Create, or the file path
	DisplayName string `json:"displayName"` // Human-readable name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
}

// Builder creates a fresh, unprepared scene
type Builder func(cameraOverrides ...renderer.CameraConfig) *Scene

type builtin struct {
	info  SceneInfo
	build Builder
}

var builtins = []builtin{
	{SceneInfo{ID: "phong", Description: "Phong-shaded sphere beside a diffuse sphere, lit from the right"}, NewPhongScene},
	{SceneInfo{ID: "hollow-glass", Description: "Hollow glass, diffuse and gold spheres over a yellow ground"}, NewHollowGlassScene},
	{SceneInfo{ID: "random-spheres", Description: "Field of small random spheres around three large ones"}, NewRandomSpheresScene},
	{SceneInfo{ID: "ground-light", Description: "Ball on a ground sphere casting a shadow from one point light"}, NewGroundLightScene},
}

// Create builds the named built-in scene. Call Prepare on the result before rendering.
func Create(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == name {
			return b.build(cameraOverrides...), nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(builtinNames(), ", "))
}

// List returns the built-in scenes in registration order
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		info := b.info
		info.DisplayName = titleCase(info.ID)
		info.Type = "builtin"
		infos = append(infos, info)
	}
	return infos
}

func builtinNames() []string {
	names := make([]string, 0, len(builtins))
	for _, b := range builtins {
		names = append(names, b.info.ID)
	}
	return names
}

// ListSceneFiles scans dir for *.json scene files.
// A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return []SceneInfo{}, nil
		}
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		scenes = append(scenes, ParseSceneMetadata(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name and description of a scene file.
// Unreadable files fall back to values derived from the file name.
func ParseSceneMetadata(filePath string) SceneInfo {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:          filePath,
		DisplayName: titleCase(nameWithoutExt),
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return info
	}
	if header.Name != "" {
		info.DisplayName = header.Name
	}
	info.Description = header.Description
	return info
}

// titleCase converts a filename-style string to title case
// e.g., "hollow-glass" -> "Hollow Glass"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
