package material

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	// Clamp fuzzness to valid range
	if fuzzness > 1.0 {
		fuzzness = 1.0
	}
	if fuzzness < 0.0 {
		fuzzness = 0.0
	}
	return &Metal{Albedo: albedo, Fuzzness: fuzzness}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, env Environment, sampler core.Sampler) (ScatterResult, bool) {
	return specularBounce(rayIn, hit, m.Albedo, m.Fuzzness, sampler)
}

// Occlusion implements the Material interface; metal is opaque
func (m *Metal) Occlusion() float64 {
	return 0
}

// specularBounce mirrors the incoming ray and perturbs it by fuzz.
// Rays perturbed into the surface are absorbed.
func specularBounce(rayIn core.Ray, hit HitRecord, albedo core.Vec3, fuzz float64, sampler core.Sampler) (ScatterResult, bool) {
	reflected := core.Reflect(rayIn.Direction, hit.Normal).Normalize()
	if fuzz > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(fuzz))
	}

	scattered := core.NewRay(hit.Point, reflected)
	if scattered.Direction.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: albedo,
	}, true
}
