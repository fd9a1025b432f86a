package core

import (
	"math"
	"testing"
)

func TestSamplePointInUnitSphere_Bounds(t *testing.T) {
	sampler := NewSeededSampler(42, 0)

	var mean Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		p := RandomInUnitSphere(sampler)
		if p.Length() > 1.0+1e-12 {
			t.Fatalf("Point %v outside unit sphere", p)
		}
		mean = mean.Add(p)
	}
	mean = mean.Multiply(1.0 / n)

	// Uniform distribution is centered on the origin
	if mean.Length() > 0.02 {
		t.Errorf("Expected mean near origin, got %v", mean)
	}
}

func TestRandomUnitVector_Length(t *testing.T) {
	sampler := NewSeededSampler(7, 3)
	for i := 0; i < 1000; i++ {
		v := RandomUnitVector(sampler)
		if v.NearZero() {
			continue
		}
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit vector, got length %f", v.Length())
		}
	}
}

func TestSamplePointInUnitDisk(t *testing.T) {
	tests := []struct {
		name   string
		sx, sy float64
	}{
		{"center", 0.5, 0.5},
		{"corner", 0, 0},
		{"opposite corner", 0.999, 0.999},
		{"edge", 1, 0.5},
		{"arbitrary", 0.13, 0.77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SamplePointInUnitDisk(tt.sx, tt.sy)
			if p.Z != 0 {
				t.Errorf("Expected z=0, got %f", p.Z)
			}
			if p.Length() > 1.0+1e-9 {
				t.Errorf("Point %v outside unit disk", p)
			}
		})
	}
}

func TestSeededSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(123, 9)
	b := NewSeededSampler(123, 9)
	c := NewSeededSampler(123, 10)

	sameAsC := true
	for i := 0; i < 16; i++ {
		va, vb, vc := a.Get1D(), b.Get1D(), c.Get1D()
		if va != vb {
			t.Fatalf("Same seed and stream diverged at %d: %f vs %f", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("Sample %f outside [0,1)", va)
		}
		if va != vc {
			sameAsC = false
		}
	}
	if sameAsC {
		t.Error("Different streams produced identical sequences")
	}
}
