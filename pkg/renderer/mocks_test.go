package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// testScene is a minimal Scene for renderer tests
type testScene struct {
	camera *Camera
	world  *geometry.World
	lights lights.Lighting
}

func (s *testScene) GetCamera() *Camera         { return s.camera }
func (s *testScene) GetWorld() *geometry.World  { return s.world }
func (s *testScene) GetLights() lights.Lighting { return s.lights }
func (s *testScene) GetBackgroundColors() (core.Vec3, core.Vec3) {
	return core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1, 1, 1)
}

func newTestScene(shapes []geometry.Shape, lighting ...lights.Light) *testScene {
	return &testScene{
		camera: NewCamera(CameraConfig{
			Center:      core.NewVec3(0, 0, 0),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			AspectRatio: 2.0,
			VFov:        90,
		}),
		world:  geometry.NewWorld(shapes...),
		lights: lighting,
	}
}

// whiteLight shines from above and behind the camera
var whiteLight = lights.NewPointLight(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1), core.NewVec3(0, 5, 5))

func lightAt(position core.Vec3) lights.Light {
	return lights.NewPointLight(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1), position)
}

// absorbingMaterial never scatters
type absorbingMaterial struct{}

func (absorbingMaterial) Scatter(core.Ray, material.HitRecord, material.Environment, core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}
func (absorbingMaterial) Occlusion() float64 { return 0 }

// panickingMaterial blows up when shaded
type panickingMaterial struct{}

func (panickingMaterial) Scatter(core.Ray, material.HitRecord, material.Environment, core.Sampler) (material.ScatterResult, bool) {
	panic("boom")
}
func (panickingMaterial) Occlusion() float64 { return 0 }

var errSinkFull = errors.New("sink full")

// failingSink accepts okRows scanlines and then fails
type failingSink struct {
	okRows  int
	written int
	ended   bool
}

func (s *failingSink) Begin(int, int) error { return nil }
func (s *failingSink) WriteRow([]core.Vec3) error {
	if s.written >= s.okRows {
		return errSinkFull
	}
	s.written++
	return nil
}
func (s *failingSink) End() error {
	s.ended = true
	return nil
}

// recordingLogger keeps every message
type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}
