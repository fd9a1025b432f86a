package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/google/go-cmp/cmp"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Top-left: Red (1, 0, 0) -> Lum = 0.2126
	// Top-right: Green (0, 1, 0) -> Lum = 0.7152
	// Bottom-left: Blue (0, 0, 1) -> Lum = 0.0722
	// Bottom-right: Black (0, 0, 0) -> Lum = 0.0
	// Expected average: 1.0 / 4 = 0.25
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})

	avgLum := CalculateAverageLuminance(img)
	if math.Abs(avgLum-1.0) > 0.0001 {
		t.Errorf("Expected average luminosity 1.0, got %f", avgLum)
	}
}

func TestCalculateRegionLuminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	if lum := CalculateRegionLuminance(img, image.Rect(0, 0, 2, 2)); math.Abs(lum-1.0) > 0.0001 {
		t.Errorf("Expected white region luminance 1.0, got %f", lum)
	}
	if lum := CalculateRegionLuminance(img, image.Rect(2, 0, 4, 2)); lum != 0 {
		t.Errorf("Expected black region luminance 0, got %f", lum)
	}
	if lum := CalculateRegionLuminance(img, image.Rect(10, 10, 12, 12)); lum != 0 {
		t.Errorf("Expected region outside the image to report 0, got %f", lum)
	}
}

func TestPixelStats_AddSample(t *testing.T) {
	var ps PixelStats
	if diff := cmp.Diff(core.Vec3{}, ps.GetColor()); diff != "" {
		t.Errorf("empty pixel should be black (-want +got):\n%s", diff)
	}

	ps.AddSample(core.NewVec3(1, 0, 0))
	ps.AddSample(core.NewVec3(0, 1, 0))

	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if diff := cmp.Diff(core.NewVec3(0.5, 0.5, 0), ps.GetColor(), approxVec); diff != "" {
		t.Errorf("average mismatch (-want +got):\n%s", diff)
	}
}

func TestPixelStats_StandardError(t *testing.T) {
	var constant PixelStats
	for i := 0; i < 10; i++ {
		constant.AddSample(core.NewVec3(0.5, 0.5, 0.5))
	}
	if se := constant.StandardError(); se != 0 {
		t.Errorf("Constant samples should have zero error, got %g", se)
	}

	var noisy PixelStats
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			noisy.AddSample(core.NewVec3(1, 1, 1))
		} else {
			noisy.AddSample(core.Vec3{})
		}
	}
	// Luminance alternates 1, 0: sample variance 10/36, so the error is sqrt(1/36)
	if se := noisy.StandardError(); math.Abs(se-1.0/6.0) > 1e-12 {
		t.Errorf("Expected standard error 1/6 for alternating samples, got %g", se)
	}

	var single PixelStats
	single.AddSample(core.NewVec3(1, 1, 1))
	if se := single.StandardError(); se != 0 {
		t.Errorf("Single sample should report 0 error, got %f", se)
	}
}

func TestRenderStats_AverageSamples(t *testing.T) {
	stats := RenderStats{TotalPixels: 4, TotalSamples: 40, Duration: time.Second}
	if avg := stats.AverageSamples(); avg != 10 {
		t.Errorf("Expected 10 samples per pixel, got %f", avg)
	}
	if avg := (RenderStats{}).AverageSamples(); avg != 0 {
		t.Errorf("Expected 0 for empty stats, got %f", avg)
	}
}
