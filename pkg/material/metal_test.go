package material

import (
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNewMetal_FuzznessClamp(t *testing.T) {
	tests := []struct {
		name     string
		fuzz     float64
		expected float64
	}{
		{"negative clamps to zero", -0.5, 0},
		{"in range", 0.3, 0.3},
		{"above one clamps to one", 2.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), tt.fuzz)
			if metal.Fuzzness != tt.expected {
				t.Errorf("Expected fuzzness %f, got %f", tt.expected, metal.Fuzzness)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.6, 0.2)
	metal := NewMetal(albedo, 0)

	ray := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(2, -2, 0))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 1, 0),
	}

	scatter, didScatter := metal.Scatter(ray, hit, Environment{}, core.NewSeededSampler(1, 1))
	if !didScatter {
		t.Fatal("Expected mirror reflection to scatter")
	}

	expected := core.NewVec3(1, 1, 0).Normalize()
	if diff := cmp.Diff(expected, scatter.Scattered.Direction, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("reflection mismatch (-want +got):\n%s", diff)
	}
	if scatter.Attenuation != albedo {
		t.Errorf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
	}
}

func TestMetal_FuzzyReflection(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.3)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 1, 0),
	}
	sampler := core.NewSeededSampler(42, 0)

	perfect := core.NewVec3(0, 1, 0)
	for i := 0; i < 200; i++ {
		scatter, didScatter := metal.Scatter(ray, hit, Environment{}, sampler)
		if !didScatter {
			t.Fatal("Head-on fuzz 0.3 reflection should always scatter")
		}
		// Perturbation is at most fuzz in length
		if deviation := scatter.Scattered.Direction.Subtract(perfect).Length(); deviation > 0.3+1e-9 {
			t.Fatalf("Deviation %f exceeds fuzz", deviation)
		}
	}
}

func TestMetal_ScatterAbsorption(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 1.0)

	// Grazing ray, perturbation pushes the reflection into the surface
	ray := core.NewRay(core.NewVec3(-1, 0.01, 0), core.NewVec3(1, -0.01, 0))
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 1, 0),
	}

	_, didScatter := metal.Scatter(ray, hit, Environment{}, stubSampler{three: sphereSampleDown})
	if didScatter {
		t.Error("Expected ray reflected into the surface to be absorbed")
	}
}

func TestMetal_Occlusion(t *testing.T) {
	if got := NewMetal(core.NewVec3(1, 1, 1), 0).Occlusion(); got != 0 {
		t.Errorf("Expected opaque metal, got occlusion %f", got)
	}
}
