package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// vec3 is a Vec3 written as a JSON array [x, y, z]
type vec3 [3]float64

func (v vec3) toVec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// File is the JSON form of a scene
type File struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Camera      CameraFile              `json:"camera"`
	Sampling    SamplingFile            `json:"sampling"`
	Background  *BackgroundFile         `json:"background,omitempty"`
	Occlusion   string                  `json:"occlusion,omitempty"` // "nearest" or "first"
	Materials   map[string]MaterialFile `json:"materials"`
	Spheres     []SphereFile            `json:"spheres"`
	Lights      []LightFile             `json:"lights"`
}

// CameraFile mirrors renderer.CameraConfig
type CameraFile struct {
	Center        vec3    `json:"center"`
	LookAt        vec3    `json:"lookAt"`
	Up            vec3    `json:"up"`
	AspectRatio   float64 `json:"aspectRatio"`
	VFov          float64 `json:"vfov"`
	Aperture      float64 `json:"aperture,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"`
}

// SamplingFile holds the sampling fields a scene may set; unset fields keep their defaults
type SamplingFile struct {
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	SamplesPerPixel int    `json:"samplesPerPixel,omitempty"`
	MaxDepth        int    `json:"maxDepth,omitempty"`
	Seed            uint64 `json:"seed,omitempty"`
}

// BackgroundFile sets the sky gradient
type BackgroundFile struct {
	Top    vec3 `json:"top"`
	Bottom vec3 `json:"bottom"`
}

// MaterialFile describes one named material. Which fields apply depends on Type.
type MaterialFile struct {
	Type               string  `json:"type"` // lambertian, metal, dielectric, phong
	Albedo             vec3    `json:"albedo"`
	Fuzz               float64 `json:"fuzz,omitempty"`
	RefractiveIndex    float64 `json:"refractiveIndex,omitempty"`
	Occlusion          float64 `json:"occlusion,omitempty"`
	Diffuse            float64 `json:"diffuse,omitempty"`
	Specular           float64 `json:"specular,omitempty"`
	Shine              float64 `json:"shine,omitempty"`
	Exponent           int     `json:"exponent,omitempty"`
	DiffuseProbability float64 `json:"diffuseProbability,omitempty"`
}

// SphereFile places a sphere; Material names an entry in File.Materials
type SphereFile struct {
	Center   vec3    `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// LightFile places a point light
type LightFile struct {
	Diffuse  vec3 `json:"diffuse"`
	Specular vec3 `json:"specular"`
	Position vec3 `json:"position"`
}

// LoadFile reads a JSON scene from path
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Load decodes a JSON scene. Unknown fields are rejected.
func Load(r io.Reader) (*Scene, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var file File
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return file.Build()
}

// Build converts the file into a Scene. Prepare must still be called before rendering.
func (f *File) Build() (*Scene, error) {
	var errors ValidationErrors

	samplingConfig := renderer.MergeSamplingConfig(renderer.DefaultSamplingConfig(), renderer.SamplingConfig{
		Width:           f.Sampling.Width,
		Height:          f.Sampling.Height,
		SamplesPerPixel: f.Sampling.SamplesPerPixel,
		MaxDepth:        f.Sampling.MaxDepth,
		Seed:            f.Sampling.Seed,
	})

	cameraConfig := renderer.CameraConfig{
		Center:        f.Camera.Center.toVec3(),
		LookAt:        f.Camera.LookAt.toVec3(),
		Up:            f.Camera.Up.toVec3(),
		AspectRatio:   f.Camera.AspectRatio,
		VFov:          f.Camera.VFov,
		Aperture:      f.Camera.Aperture,
		FocusDistance: f.Camera.FocusDistance,
	}

	s := New(f.Name, cameraConfig, samplingConfig)
	if f.Background != nil {
		s.TopColor = f.Background.Top.toVec3()
		s.BottomColor = f.Background.Bottom.toVec3()
	}

	mode, err := geometry.ParseOcclusionMode(f.Occlusion)
	if err != nil {
		errors = append(errors, err.Error())
	}
	s.World.Mode = mode

	// Sorted so error messages come out in a stable order
	names := make([]string, 0, len(f.Materials))
	for name := range f.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	materials := make(map[string]material.Material, len(f.Materials))
	for _, name := range names {
		mat, err := f.Materials[name].build()
		if err != nil {
			errors = append(errors, fmt.Sprintf("material '%s': %v", name, err))
			continue
		}
		materials[name] = mat
	}

	for i, sphere := range f.Spheres {
		mat, ok := materials[sphere.Material]
		if !ok {
			if _, declared := f.Materials[sphere.Material]; !declared {
				errors = append(errors, fmt.Sprintf("sphere %d references unknown material '%s'", i, sphere.Material))
			}
			continue
		}
		s.AddSphere(sphere.Center.toVec3(), sphere.Radius, mat)
	}

	for _, light := range f.Lights {
		s.AddPointLight(light.Diffuse.toVec3(), light.Specular.toVec3(), light.Position.toVec3())
	}

	if len(errors) > 0 {
		return nil, errors
	}
	return s, nil
}

func (m MaterialFile) build() (material.Material, error) {
	if m.Fuzz < 0 || m.Fuzz > 1 {
		return nil, fmt.Errorf("fuzz must be between 0 and 1, got %g", m.Fuzz)
	}
	switch m.Type {
	case "lambertian":
		return material.NewLambertian(m.Albedo.toVec3()), nil
	case "metal":
		return material.NewMetal(m.Albedo.toVec3(), m.Fuzz), nil
	case "dielectric":
		if m.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("refractiveIndex must be positive, got %g", m.RefractiveIndex)
		}
		return material.NewDielectric(m.RefractiveIndex, m.Occlusion), nil
	case "phong":
		return material.NewPhong(material.PhongConfig{
			Diffuse:            m.Diffuse,
			Specular:           m.Specular,
			Shine:              m.Shine,
			Exponent:           m.Exponent,
			Albedo:             m.Albedo.toVec3(),
			Fuzz:               m.Fuzz,
			DiffuseProbability: m.DiffuseProbability,
			Occlusion:          m.Occlusion,
		}), nil
	case "":
		return nil, fmt.Errorf("missing type")
	default:
		return nil, fmt.Errorf("unsupported type '%s'", m.Type)
	}
}
