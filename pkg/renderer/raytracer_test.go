package renderer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"image/png"
	"strconv"
	"strings"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/google/go-cmp/cmp"
)

func smallConfig(width, height, samples int) SamplingConfig {
	return SamplingConfig{
		Width:           width,
		Height:          height,
		SamplesPerPixel: samples,
		MaxDepth:        10,
		Seed:            7,
		NumWorkers:      2,
	}
}

func litSphereScene() *testScene {
	return newTestScene([]geometry.Shape{
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.8, 0.4, 0.2))),
	}, whiteLight)
}

func TestRayColor_DepthZeroIsBlack(t *testing.T) {
	rt := NewRaytracer(litSphereScene(), smallConfig(4, 2, 1), nil)
	sampler := core.NewSeededSampler(1, 1)

	rays := []core.Ray{
		core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), // hits the sphere
		core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)),  // sky
	}
	for _, ray := range rays {
		if c := rt.RayColor(ray, 0, sampler); c != (core.Vec3{}) {
			t.Errorf("Expected black at depth 0 for %v, got %v", ray.Direction, c)
		}
	}
}

func TestRayColor_BackgroundGradient(t *testing.T) {
	rt := NewRaytracer(newTestScene(nil), smallConfig(4, 2, 1), nil)
	sampler := core.NewSeededSampler(1, 1)

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up is sky blue", core.NewVec3(0, 3, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down is white", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"horizon is halfway", core.NewVec3(0, 0, -2), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rt.RayColor(core.NewRay(core.Vec3{}, tt.direction), 5, sampler)
			if diff := cmp.Diff(tt.expected, got, approxVec); diff != "" {
				t.Errorf("background mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRayColor_NoVisibleLightIsBlack(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.8)))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	sampler := core.NewSeededSampler(1, 1)

	// No lights at all
	dark := NewRaytracer(newTestScene([]geometry.Shape{sphere}), smallConfig(4, 2, 1), nil)
	if c := dark.RayColor(ray, 5, sampler); c != (core.Vec3{}) {
		t.Errorf("Expected black with no lights, got %v", c)
	}

	// Light behind the sphere, facing away from the visible side
	behind := litSphereScene()
	behind.lights[0] = lightAt(core.NewVec3(0, 0, -10))
	rt := NewRaytracer(behind, smallConfig(4, 2, 1), nil)
	if c := rt.RayColor(ray, 5, sampler); c != (core.Vec3{}) {
		t.Errorf("Expected black with light behind surface, got %v", c)
	}
}

func TestRayColor_LitLambertian(t *testing.T) {
	rt := NewRaytracer(litSphereScene(), smallConfig(4, 2, 1), nil)
	sampler := core.NewSeededSampler(3, 0)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	// A diffuse bounce off a lone convex sphere always escapes to the sky
	for i := 0; i < 50; i++ {
		c := rt.RayColor(ray, 5, sampler)
		if c.X <= 0 || c.Y <= 0 || c.Z <= 0 {
			t.Fatalf("Expected positive color, got %v", c)
		}
		if c.X > 0.8+1e-9 || c.Y > 0.4+1e-9 || c.Z > 0.2+1e-9 {
			t.Fatalf("Color %v exceeds albedo times brightest sky", c)
		}
	}
}

func TestRayColor_AbsorbedIsBlack(t *testing.T) {
	scene := newTestScene([]geometry.Shape{
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, absorbingMaterial{}),
	}, whiteLight)
	rt := NewRaytracer(scene, smallConfig(4, 2, 1), nil)

	c := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 5, core.NewSeededSampler(1, 1))
	if c != (core.Vec3{}) {
		t.Errorf("Expected black for absorbed ray, got %v", c)
	}
}

func TestSamplePixel_Converges(t *testing.T) {
	rt := NewRaytracer(litSphereScene(), smallConfig(8, 4, 1), nil)

	spread := func(samples int) float64 {
		rt.config.SamplesPerPixel = samples
		var estimates PixelStats
		for seed := uint64(0); seed < 30; seed++ {
			stats := rt.SamplePixel(4, 2, core.NewSeededSampler(seed, 99))
			estimates.AddSample(stats.GetColor())
		}
		return estimates.StandardError()
	}

	few, many := spread(2), spread(64)
	if many >= few {
		t.Errorf("Expected estimates to tighten with more samples: 2spp=%f 64spp=%f", few, many)
	}
}

func TestRender_PPMFormat(t *testing.T) {
	rt := NewRaytracer(litSphereScene(), smallConfig(4, 3, 2), nil)

	var buf bytes.Buffer
	stats, err := rt.Render(context.Background(), NewPPMWriter(&buf))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if len(lines) != 3+4*3 {
		t.Fatalf("Expected %d lines, got %d", 3+4*3, len(lines))
	}
	if diff := cmp.Diff([]string{"P3", "4 3", "255"}, lines[:3]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	for _, line := range lines[3:] {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			t.Fatalf("Expected 3 channels, got %q", line)
		}
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil || v < 0 || v > 255 {
				t.Fatalf("Invalid channel %q in %q", f, line)
			}
		}
	}

	if stats.TotalPixels != 12 || stats.TotalSamples != 24 {
		t.Errorf("Expected 12 pixels and 24 samples, got %+v", stats)
	}
}

func TestRender_TopRowFirst(t *testing.T) {
	// Empty world: the top row sees more sky blue than the bottom row
	rt := NewRaytracer(newTestScene(nil), smallConfig(2, 5, 1), nil)

	iw, _, err := rt.RenderImage(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	img := iw.Image()
	top := img.RGBAAt(0, 0)
	bottom := img.RGBAAt(0, 4)
	if top.R >= bottom.R {
		t.Errorf("Expected bluer (less red) sky at the top: top=%v bottom=%v", top, bottom)
	}
}

func TestRender_DeterministicAcrossWorkerCounts(t *testing.T) {
	render := func(workers int) string {
		config := smallConfig(6, 3, 4)
		config.NumWorkers = workers
		var buf bytes.Buffer
		if _, err := NewRaytracer(litSphereScene(), config, nil).Render(context.Background(), NewPPMWriter(&buf)); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		return buf.String()
	}

	if diff := cmp.Diff(render(1), render(4)); diff != "" {
		t.Errorf("output depends on worker count (-1 worker +4 workers):\n%s", diff)
	}
}

func TestRender_SinkErrorAborts(t *testing.T) {
	rt := NewRaytracer(litSphereScene(), smallConfig(4, 6, 1), nil)
	sink := &failingSink{okRows: 2}

	_, err := rt.Render(context.Background(), sink)
	if !errors.Is(err, errSinkFull) {
		t.Fatalf("Expected sink error, got %v", err)
	}
	if sink.written != 2 {
		t.Errorf("Expected 2 rows written before failure, got %d", sink.written)
	}
	if sink.ended {
		t.Error("End should not be called after a failed write")
	}
}

func TestRender_Cancelled(t *testing.T) {
	rt := NewRaytracer(litSphereScene(), smallConfig(4, 3, 1), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := rt.Render(ctx, NewImageWriter()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRender_LogsProgress(t *testing.T) {
	logger := &recordingLogger{}
	rt := NewRaytracer(litSphereScene(), smallConfig(2, 3, 1), logger)

	if _, err := rt.Render(context.Background(), NewImageWriter()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := []string{"Scanlines remaining: 3", "Scanlines remaining: 2", "Scanlines remaining: 1", "Done."}
	if len(logger.messages) != len(want)+1 {
		t.Fatalf("Expected %d messages, got %q", len(want)+1, logger.messages)
	}
	if diff := cmp.Diff(want, logger.messages[:len(want)]); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(logger.messages[len(want)], "Rendered 2x3:") {
		t.Errorf("Expected stats summary, got %q", logger.messages[len(want)])
	}
}

func TestRender_PNG(t *testing.T) {
	rt := NewRaytracer(litSphereScene(), smallConfig(5, 3, 1), nil)

	var buf bytes.Buffer
	if _, err := rt.Render(context.Background(), NewPNGWriter(&buf)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Errorf("Expected 5x3 image, got %v", b)
	}
}

func TestSamplingConfig_MergeAndAspect(t *testing.T) {
	base := DefaultSamplingConfig()
	merged := MergeSamplingConfig(base, SamplingConfig{Width: 400, SamplesPerPixel: 10})

	expected := base
	expected.Width = 400
	expected.SamplesPerPixel = 10
	if diff := cmp.Diff(expected, merged); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}

	if h := merged.WithAspectRatio(16.0 / 9.0).Height; h != 225 {
		t.Errorf("Expected height 225, got %d", h)
	}
	fixed := merged
	fixed.Height = 100
	if h := fixed.WithAspectRatio(16.0 / 9.0).Height; h != 100 {
		t.Errorf("Explicit height should win, got %d", h)
	}
}

func TestNewRaytracer_DerivesHeightFromCamera(t *testing.T) {
	rt := NewRaytracer(litSphereScene(), smallConfig(8, 0, 1), nil)
	if h := rt.Config().Height; h != 4 {
		t.Fatalf("Expected height 8/2 = 4 from the camera aspect ratio, got %d", h)
	}

	iw, _, err := rt.RenderImage(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if b := iw.Image().Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("Expected 8x4 image, got %v", b)
	}
}

func TestRender_RejectsEmptyImage(t *testing.T) {
	for _, config := range []SamplingConfig{smallConfig(0, 3, 1), smallConfig(4, -1, 1)} {
		var buf bytes.Buffer
		rt := NewRaytracer(litSphereScene(), config, nil)
		if _, err := rt.Render(context.Background(), NewPPMWriter(&buf)); err == nil {
			t.Errorf("Expected error for %dx%d image", config.Width, config.Height)
		}
		if buf.Len() != 0 {
			t.Errorf("Expected no output for %dx%d image, got %q", config.Width, config.Height, buf.String())
		}
	}
}
