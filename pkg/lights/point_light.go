package lights

import "github.com/df07/go-phong-raytracer/pkg/core"

// PointLight is an infinitely small light with the same intensity at every distance
type PointLight struct {
	diffuse  core.Vec3
	specular core.Vec3
	position core.Vec3
}

// NewPointLight creates a point light at position with separate diffuse and specular intensities
func NewPointLight(diffuse, specular, position core.Vec3) *PointLight {
	return &PointLight{
		diffuse:  diffuse,
		specular: specular,
		position: position,
	}
}

// Type implements the Light interface
func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

// Diffuse implements the Light interface
func (pl *PointLight) Diffuse() core.Vec3 {
	return pl.diffuse
}

// Specular implements the Light interface
func (pl *PointLight) Specular() core.Vec3 {
	return pl.specular
}

// Position implements the Light interface
func (pl *PointLight) Position() core.Vec3 {
	return pl.position
}
