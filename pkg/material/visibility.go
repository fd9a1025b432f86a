package material

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// ShadowEpsilon is the minimum t for secondary rays, keeping them off the surface they leave
const ShadowEpsilon = 0.001

// IsLit reports whether light reaches point on a surface with the given normal.
// Lights behind the surface are never visible.
func IsLit(point, normal core.Vec3, light lights.Light, occluder Occluder) bool {
	toLight := light.Position().Subtract(point)
	if normal.Dot(toLight) < 0 {
		return false
	}

	shadowRay := core.NewRay(point, toLight.Normalize())
	return !occluder.Occluded(shadowRay, light.Position(), ShadowEpsilon, math.Inf(1))
}

// FirstVisibleLight scans lights in order and returns the first one that reaches point
func FirstVisibleLight(point, normal core.Vec3, lighting lights.Lighting, occluder Occluder) (lights.Light, bool) {
	for _, light := range lighting {
		if IsLit(point, normal, light, occluder) {
			return light, true
		}
	}
	return nil, false
}
