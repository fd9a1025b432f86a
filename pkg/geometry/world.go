package geometry

import (
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// OcclusionMode selects how World answers shadow queries
type OcclusionMode int

const (
	// OcclusionNearest lets the nearest hit in range decide whether light is blocked
	OcclusionNearest OcclusionMode = iota
	// OcclusionFirstHit lets the first shape in container order that intersects decide,
	// even if a closer shape appears later
	OcclusionFirstHit
)

// String returns the flag spelling of the mode
func (m OcclusionMode) String() string {
	switch m {
	case OcclusionNearest:
		return "nearest"
	case OcclusionFirstHit:
		return "first"
	default:
		return fmt.Sprintf("OcclusionMode(%d)", int(m))
	}
}

// ParseOcclusionMode parses "nearest" or "first"
func ParseOcclusionMode(s string) (OcclusionMode, error) {
	switch s {
	case "nearest", "":
		return OcclusionNearest, nil
	case "first":
		return OcclusionFirstHit, nil
	default:
		return 0, fmt.Errorf("unknown occlusion mode %q (want nearest or first)", s)
	}
}

// World is an ordered collection of shapes queried by linear scan
type World struct {
	Shapes []Shape
	Mode   OcclusionMode
}

// NewWorld creates a world containing shapes
func NewWorld(shapes ...Shape) *World {
	return &World{Shapes: shapes}
}

// Add appends shapes to the world
func (w *World) Add(shapes ...Shape) {
	w.Shapes = append(w.Shapes, shapes...)
}

// Hit returns the closest intersection in [tMin, tMax].
// On exact ties the shape added first wins.
func (w *World) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range w.Shapes {
		hit, isHit := shape.Hit(ray, tMin, closestSoFar)
		if isHit && (closestHit == nil || hit.T < closestSoFar) {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// Occluded implements material.Occluder.
// A hit blocks the light when its material has zero occlusion and it lies
// on the light's side of the ray origin.
func (w *World) Occluded(ray core.Ray, lightPos core.Vec3, tMin, tMax float64) bool {
	if w.Mode == OcclusionFirstHit {
		for _, shape := range w.Shapes {
			if hit, isHit := shape.Hit(ray, tMin, tMax); isHit {
				return blocks(ray, hit, lightPos)
			}
		}
		return false
	}

	hit, isHit := w.Hit(ray, tMin, tMax)
	if !isHit {
		return false
	}
	return blocks(ray, hit, lightPos)
}

func blocks(ray core.Ray, hit *material.HitRecord, lightPos core.Vec3) bool {
	return hit.Material.Occlusion() == 0 && ray.Direction.Dot(lightPos.Subtract(hit.Point)) > 0
}
