package material

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// Material interface for surfaces that can scatter rays.
// Materials are immutable and shared across render workers; all randomness
// comes from the sampler passed in by the caller.
type Material interface {
	// Scatter returns the attenuation and outgoing ray for an incoming ray,
	// or false if the ray is absorbed
	Scatter(rayIn core.Ray, hit HitRecord, env Environment, sampler core.Sampler) (ScatterResult, bool)

	// Occlusion is consulted by shadow tests: 0 blocks light, anything else lets it through
	Occlusion() float64
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// Occluder answers shadow-ray queries against the scene
type Occluder interface {
	// Occluded reports whether something between the ray origin and lightPos blocks the light
	Occluded(ray core.Ray, lightPos core.Vec3, tMin, tMax float64) bool
}

// Environment is the read-only scene context a material may consult while scattering
type Environment struct {
	ViewOrigin core.Vec3       // Where the incoming ray was cast from
	Lights     lights.Lighting // Scene lights in order
	Occluder   Occluder        // Shadow queries
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
