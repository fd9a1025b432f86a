package material

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
)

// mockOccluder implements Occluder for testing
type mockOccluder struct {
	blockedFn func(ray core.Ray, lightPos core.Vec3) bool
	calls     int
	lastRay   core.Ray
	lastTMin  float64
}

func (m *mockOccluder) Occluded(ray core.Ray, lightPos core.Vec3, tMin, tMax float64) bool {
	m.calls++
	m.lastRay = ray
	m.lastTMin = tMin
	if m.blockedFn == nil {
		return false
	}
	return m.blockedFn(ray, lightPos)
}

// stubSampler returns the same values on every call
type stubSampler struct {
	one   float64
	three core.Vec3
}

func (s stubSampler) Get1D() float64            { return s.one }
func (s stubSampler) Get2D() (float64, float64) { return s.three.X, s.three.Y }
func (s stubSampler) Get3D() core.Vec3          { return s.three }

// Get3D values that SamplePointInUnitSphere maps to exact unit vectors
var (
	sphereSampleDown = core.NewVec3(1, 0.75, 0.5) // (0,-1,0)
	sphereSampleNegZ = core.NewVec3(1, 0, 0)      // (0,0,-1)
)
