package renderer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"golang.org/x/sync/errgroup"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int    // Image width in pixels
	Height          int    // Image height in pixels, 0 = derive from the camera aspect ratio
	SamplesPerPixel int    // Number of rays per pixel
	MaxDepth        int    // Maximum ray bounce depth
	Seed            uint64 // Base seed for per-pixel random streams
	NumWorkers      int    // Parallel workers, 0 = runtime.NumCPU()
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           256,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
		NumWorkers:      runtime.NumCPU(),
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	merged := base
	if override.Width != 0 {
		merged.Width = override.Width
	}
	if override.Height != 0 {
		merged.Height = override.Height
	}
	if override.SamplesPerPixel != 0 {
		merged.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		merged.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		merged.Seed = override.Seed
	}
	if override.NumWorkers != 0 {
		merged.NumWorkers = override.NumWorkers
	}
	return merged
}

// WithAspectRatio fills in Height from Width when it is unset
func (c SamplingConfig) WithAspectRatio(aspectRatio float64) SamplingConfig {
	if c.Height == 0 && aspectRatio > 0 {
		c.Height = int(float64(c.Width) / aspectRatio)
		if c.Height < 1 {
			c.Height = 1
		}
	}
	return c
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
	GetWorld() *geometry.World
	GetLights() lights.Lighting
}

// Raytracer handles the rendering process.
// All scene state is read-only; every stochastic call draws from the sampler it is given.
type Raytracer struct {
	scene  Scene
	config SamplingConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A zero Height is derived from the
// scene camera's aspect ratio.
func NewRaytracer(scene Scene, config SamplingConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if camera := scene.GetCamera(); camera != nil {
		config = config.WithAspectRatio(camera.AspectRatio())
	}
	return &Raytracer{
		scene:  scene,
		config: config,
		logger: logger,
	}
}

// Config returns the sampling configuration
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// backgroundGradient returns a gradient color based on ray direction
func (rt *Raytracer) backgroundGradient(r core.Ray) core.Vec3 {
	topColor, bottomColor := rt.scene.GetBackgroundColors()

	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)

	return bottomColor.Multiply(1.0 - t).Add(topColor.Multiply(t))
}

// RayColor returns the color carried back along r with depth bounces remaining
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	world := rt.scene.GetWorld()
	hit, isHit := world.Hit(r, material.ShadowEpsilon, math.Inf(1))
	if !isHit {
		return rt.backgroundGradient(r)
	}

	// Unlit points are black whatever the material would do
	lighting := rt.scene.GetLights()
	if _, lit := material.FirstVisibleLight(hit.Point, hit.Normal, lighting, world); !lit {
		return core.Vec3{}
	}

	env := material.Environment{
		ViewOrigin: r.Origin,
		Lights:     lighting,
		Occluder:   world,
	}
	scatter, didScatter := hit.Material.Scatter(r, *hit, env, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, depth-1, sampler))
}

// SamplePixel accumulates samples for pixel (i, j), j counted from the bottom row
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) PixelStats {
	camera := rt.scene.GetCamera()
	uSpan := float64(max(1, rt.config.Width-1))
	vSpan := float64(max(1, rt.config.Height-1))

	var stats PixelStats
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		du, dv := sampler.Get2D()
		u := (float64(i) + du) / uSpan
		v := (float64(j) + dv) / vSpan

		ray := camera.GetRay(u, v, sampler)
		stats.AddSample(rt.RayColor(ray, rt.config.MaxDepth, sampler))
	}
	return stats
}

// PixelSampler returns the random stream for pixel (i, j).
// Streams depend only on the seed and pixel, so output is independent of scheduling.
func (rt *Raytracer) PixelSampler(i, j int) core.Sampler {
	return core.NewSeededSampler(rt.config.Seed, uint64(j*rt.config.Width+i))
}

// Render renders the image scanline by scanline into sink, top row first.
// A sink error stops the render before the next scanline and is returned.
func (rt *Raytracer) Render(ctx context.Context, sink Sink) (RenderStats, error) {
	width, height := rt.config.Width, rt.config.Height
	if width < 1 || height < 1 {
		return RenderStats{}, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	start := time.Now()

	pool := NewWorkerPool(rt, rt.config.NumWorkers)
	pool.Start()
	defer pool.Stop()

	stats := RenderStats{Workers: pool.GetNumWorkers()}
	if err := sink.Begin(width, height); err != nil {
		return stats, fmt.Errorf("failed to write header: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	rows := make(chan []core.Vec3)

	// Producer: one fan-out/fan-in per scanline
	g.Go(func() error {
		defer close(rows)
		for j := height - 1; j >= 0; j-- {
			rt.logger.Printf("Scanlines remaining: %d", j+1)
			row, samples, err := pool.RenderRow(ctx, j)
			if err != nil {
				return err
			}
			stats.TotalPixels += width
			stats.TotalSamples += samples
			select {
			case rows <- row:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// Consumer: emit rows in order
	g.Go(func() error {
		for row := range rows {
			if err := sink.WriteRow(row); err != nil {
				return fmt.Errorf("failed to write scanline: %w", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return stats, err
	}
	if err := sink.End(); err != nil {
		return stats, fmt.Errorf("failed to finish output: %w", err)
	}

	stats.Duration = time.Since(start)
	rt.logger.Printf("Done.")
	rt.logger.Printf("Rendered %dx%d: %d samples (%.1f/pixel) on %d workers in %v",
		width, height, stats.TotalSamples, stats.AverageSamples(), stats.Workers, stats.Duration)
	return stats, nil
}

// RenderImage renders into an in-memory image
func (rt *Raytracer) RenderImage(ctx context.Context) (*ImageWriter, RenderStats, error) {
	iw := NewImageWriter()
	stats, err := rt.Render(ctx, iw)
	if err != nil {
		return nil, stats, err
	}
	return iw, stats, nil
}
