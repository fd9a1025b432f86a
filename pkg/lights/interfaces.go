package lights

import "github.com/df07/go-phong-raytracer/pkg/core"

type LightType string

const (
	LightTypePoint LightType = "point"
)

// Light interface for sources consulted by shadow tests and Phong shading.
// Lights are immutable once built and are shared by all render workers.
type Light interface {
	Type() LightType

	// Diffuse returns the intensity used by diffuse shading terms
	Diffuse() core.Vec3

	// Specular returns the intensity used by specular highlights
	Specular() core.Vec3

	// Position returns the point that shadow rays are aimed at
	Position() core.Vec3
}

// Lighting is the ordered set of lights in a scene.
// Order matters: first-visible-light queries return the earliest match.
type Lighting []Light

// Add appends lights in order
func (l *Lighting) Add(lights ...Light) {
	*l = append(*l, lights...)
}

// Len returns the number of lights
func (l Lighting) Len() int {
	return len(l)
}
