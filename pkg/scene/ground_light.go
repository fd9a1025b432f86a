package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// NewGroundLightScene creates a ground sphere lit by one point light, with a
// ball resting on it that throws a shadow towards +x. The camera looks
// straight down so +x is image right and -z is image up.
func NewGroundLightScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 12, 0),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 0, -1),
		AspectRatio: 1.0,
		VFov:        40.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	samplingConfig := renderer.DefaultSamplingConfig()
	samplingConfig.Width = 200
	samplingConfig.SamplesPerPixel = 16
	samplingConfig.MaxDepth = 10

	s := New("ground-light", cameraConfig, samplingConfig)

	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphere(core.NewVec3(0, 1, 0), 1, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3)))

	s.AddPointLight(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1), core.NewVec3(-10, 10, 0))

	return s
}
