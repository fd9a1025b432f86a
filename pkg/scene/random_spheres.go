package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// randomSpheresSeed fixes the layout so repeated renders match
const randomSpheresSeed = 1

// NewRandomSpheresScene creates the cover scene: a 23x23 field of small
// diffuse, metal and glass spheres around three large ones
func NewRandomSpheresScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	samplingConfig := renderer.DefaultSamplingConfig()
	samplingConfig.Width = 256
	samplingConfig.SamplesPerPixel = 500
	samplingConfig.MaxDepth = 50

	s := New("random-spheres", cameraConfig, samplingConfig)
	random := core.NewSeededSampler(randomSpheresSeed, 0)

	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	for a := -11; a <= 11; a++ {
		for b := -11; b <= 11; b++ {
			chooseMat := random.Get1D()
			center := core.NewVec3(
				float64(a)+0.9*random.Get1D(),
				0.2,
				float64(b)+0.9*random.Get1D(),
			)

			var sphereMat material.Material
			switch {
			case chooseMat < 0.8:
				albedo := randomColor(random, 0, 1).MultiplyVec(randomColor(random, 0, 1))
				sphereMat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := randomColor(random, 0.4, 1)
				fuzz := 0.5 * random.Get1D()
				sphereMat = material.NewMetal(albedo, fuzz)
			default:
				sphereMat = material.NewDielectric(1.5, 1.0)
			}
			s.AddSphere(center, 0.2, sphereMat)
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5, 1.0))
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))

	// Without a light every surface fails the visibility gate and renders black
	s.AddPointLight(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1), core.NewVec3(10, 20, 10))

	return s
}

// randomColor returns a color with each channel uniform in [lo, hi)
func randomColor(sampler core.Sampler, lo, hi float64) core.Vec3 {
	r, g := sampler.Get2D()
	b := sampler.Get1D()
	span := hi - lo
	return core.NewVec3(lo+span*r, lo+span*g, lo+span*b)
}
