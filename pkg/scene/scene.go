package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering.
// Build it, then call Prepare once; after that it is read-only.
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.World
	Lights         lights.Lighting
	SamplingConfig renderer.SamplingConfig
	TopColor       core.Vec3 // Background straight up
	BottomColor    core.Vec3 // Background straight down
}

// New creates an empty scene with the sky gradient background
func New(name string, cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) *Scene {
	return &Scene{
		Name:           name,
		CameraConfig:   cameraConfig,
		World:          geometry.NewWorld(),
		SamplingConfig: samplingConfig,
		TopColor:       core.NewVec3(0.5, 0.7, 1.0),
		BottomColor:    core.NewVec3(1.0, 1.0, 1.0),
	}
}

// AddSphere adds a sphere to the world
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// AddPointLight appends a point light; earlier lights win first-visible-light queries
func (s *Scene) AddPointLight(diffuse, specular, position core.Vec3) {
	s.Lights.Add(lights.NewPointLight(diffuse, specular, position))
}

// Prepare validates the scene, derives the image height and builds the camera
func (s *Scene) Prepare() error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid scene %q: %w", s.Name, err)
	}
	s.SamplingConfig = s.SamplingConfig.WithAspectRatio(s.CameraConfig.AspectRatio)
	s.Camera = renderer.NewCamera(s.CameraConfig)
	return nil
}

// Validate reports every configuration problem that would make rendering undefined
func (s *Scene) Validate() error {
	var errors ValidationErrors

	validateCamera(&errors, s.CameraConfig)
	validateSampling(&errors, s.SamplingConfig)

	if s.World == nil {
		errors = append(errors, "scene has no world")
	} else {
		for i, shape := range s.World.Shapes {
			validateShape(&errors, i, shape)
		}
	}
	for i, light := range s.Lights {
		if light == nil {
			errors = append(errors, fmt.Sprintf("light %d is nil", i))
		}
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func validateCamera(errors *ValidationErrors, config renderer.CameraConfig) {
	view := config.LookAt.Subtract(config.Center)
	if view.NearZero() {
		*errors = append(*errors, "camera center and look-at point must differ")
	} else if config.Up.Cross(view).NearZero() {
		*errors = append(*errors, "camera up vector must not be parallel to the view direction")
	}
	if config.AspectRatio <= 0 {
		*errors = append(*errors, fmt.Sprintf("camera aspect ratio must be positive, got %g", config.AspectRatio))
	}
	if config.VFov <= 0 || config.VFov >= 180 {
		*errors = append(*errors, fmt.Sprintf("camera vfov must be in (0, 180) degrees, got %g", config.VFov))
	}
	if config.Aperture < 0 {
		*errors = append(*errors, fmt.Sprintf("camera aperture cannot be negative, got %g", config.Aperture))
	}
	if config.FocusDistance < 0 {
		*errors = append(*errors, fmt.Sprintf("camera focus distance cannot be negative, got %g", config.FocusDistance))
	}
}

func validateSampling(errors *ValidationErrors, config renderer.SamplingConfig) {
	if config.Width <= 0 {
		*errors = append(*errors, fmt.Sprintf("image width must be positive, got %d", config.Width))
	}
	if config.Height < 0 {
		*errors = append(*errors, fmt.Sprintf("image height cannot be negative, got %d", config.Height))
	}
	if config.SamplesPerPixel < 1 {
		*errors = append(*errors, fmt.Sprintf("samples per pixel must be at least 1, got %d", config.SamplesPerPixel))
	}
	if config.MaxDepth < 1 {
		*errors = append(*errors, fmt.Sprintf("max depth must be at least 1, got %d", config.MaxDepth))
	}
	if config.NumWorkers < 0 {
		*errors = append(*errors, fmt.Sprintf("worker count cannot be negative, got %d", config.NumWorkers))
	}
}

func validateShape(errors *ValidationErrors, index int, shape geometry.Shape) {
	sphere, ok := shape.(*geometry.Sphere)
	if !ok {
		if shape == nil {
			*errors = append(*errors, fmt.Sprintf("shape %d is nil", index))
		}
		return
	}
	if sphere.Radius == 0 || math.IsNaN(sphere.Radius) {
		*errors = append(*errors, fmt.Sprintf("sphere %d radius must be non-zero", index))
	}
	if sphere.Material == nil {
		*errors = append(*errors, fmt.Sprintf("sphere %d has no material", index))
	}
}

// GetCamera returns the camera, nil before Prepare
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld returns the shapes in the scene
func (s *Scene) GetWorld() *geometry.World {
	return s.World
}

// GetLights returns the lights in order
func (s *Scene) GetLights() lights.Lighting {
	return s.Lights
}

// GetBackgroundColors returns the sky gradient endpoints
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}
