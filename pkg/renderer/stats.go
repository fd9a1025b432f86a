package renderer

import (
	"image"
	"math"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of samples taken
	Workers      int           // Number of workers used
	Duration     time.Duration // Wall time for the render
}

// AverageSamples returns samples per pixel across the render
func (rs RenderStats) AverageSamples() float64 {
	if rs.TotalPixels == 0 {
		return 0
	}
	return float64(rs.TotalSamples) / float64(rs.TotalPixels)
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum    core.Vec3 // RGB accumulator for final result
	LuminanceMean float64   // Running mean of sample luminance
	LuminanceM2   float64   // Sum of squared deviations from the running mean (Welford)
	SampleCount   int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
	luminance := color.Luminance()
	delta := luminance - ps.LuminanceMean
	ps.LuminanceMean += delta / float64(ps.SampleCount)
	ps.LuminanceM2 += delta * (luminance - ps.LuminanceMean)
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// StandardError returns the standard error of the mean luminance
func (ps *PixelStats) StandardError() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	variance := ps.LuminanceM2 / (n - 1)
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance / n)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0,1]
func CalculateAverageLuminance(img image.Image) float64 {
	return CalculateRegionLuminance(img, img.Bounds())
}

// CalculateRegionLuminance returns the mean Rec. 709 luminance of the pixels of img inside region
func CalculateRegionLuminance(img image.Image, region image.Rectangle) float64 {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return 0
	}

	total := 0.0
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 0xffff
		}
	}
	return total / float64(region.Dx()*region.Dy())
}
