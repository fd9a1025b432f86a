package material

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, env Environment, sampler core.Sampler) (ScatterResult, bool) {
	return diffuseBounce(hit, l.Albedo, sampler)
}

// Occlusion implements the Material interface; diffuse surfaces are opaque
func (l *Lambertian) Occlusion() float64 {
	return 0
}

// diffuseBounce scatters toward normal + a random unit vector, which is cosine
// distributed about the normal
func diffuseBounce(hit HitRecord, albedo core.Vec3, sampler core.Sampler) (ScatterResult, bool) {
	scatterDirection := hit.Normal.Add(core.RandomUnitVector(sampler))

	// Exactly opposite the normal gives a zero-length direction
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: albedo,
	}, true
}
