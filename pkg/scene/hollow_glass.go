package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// defaultSamplingConfig is shared by the small demo scenes
func defaultSamplingConfig() renderer.SamplingConfig {
	config := renderer.DefaultSamplingConfig()
	config.Width = 256
	config.SamplesPerPixel = 100
	config.MaxDepth = 50
	return config
}

// tableCameraConfig looks down -z at a row of unit spheres
func tableCameraConfig(cameraOverrides []renderer.CameraConfig) renderer.CameraConfig {
	config := renderer.CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   16.0 / 9.0,
		VFov:          90.0,
		Aperture:      0.0,
		FocusDistance: 0.0, // Auto: distance to LookAt
	}
	if len(cameraOverrides) > 0 {
		config = renderer.MergeCameraConfig(config, cameraOverrides[0])
	}
	return config
}

// NewPhongScene creates a Phong-shaded sphere beside a diffuse one over a yellow ground, lit from the right
func NewPhongScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := New("phong", tableCameraConfig(cameraOverrides), defaultSamplingConfig())

	groundMat := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	centreMat := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	phongMat := material.NewPhong(material.PhongConfig{
		Diffuse:            1.0,
		Specular:           0.0,
		Shine:              0.5,
		Exponent:           4,
		Albedo:             core.NewVec3(0.1, 0.2, 0.5),
		Fuzz:               0.0,
		DiffuseProbability: 1.0,
		Occlusion:          0.0,
	})

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, groundMat)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, phongMat)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, centreMat)

	s.AddPointLight(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1), core.NewVec3(2, 0, -1))

	return s
}

// NewHollowGlassScene creates a hollow glass sphere, a diffuse sphere and a metal sphere
func NewHollowGlassScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := New("hollow-glass", tableCameraConfig(cameraOverrides), defaultSamplingConfig())

	groundMat := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	centreMat := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glassMat := material.NewDielectric(1.5, 1.0)
	goldMat := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, groundMat)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, centreMat)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glassMat)
	s.AddSphere(core.NewVec3(-1, 0, -1), -0.4, glassMat) // Negative radius hollows the shell
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, goldMat)

	s.AddPointLight(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1), core.NewVec3(2, 0, -1))
	s.AddPointLight(core.NewVec3(1, 1, 1), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, -1))

	return s
}
