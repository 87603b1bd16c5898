package core

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestAtmosphereDensity(t *testing.T) {
	tests := []struct {
		name string
		alt  float64
		want float64
	}{
		{name: "sea level", alt: 0, want: SeaLevelDensity},
		{name: "one scale height", alt: ScaleHeightKm, want: SeaLevelDensity / math.E},
		{name: "below ground clamps", alt: -3, want: SeaLevelDensity},
		{name: "entry interface", alt: 100, want: SeaLevelDensity * math.Exp(-100/ScaleHeightKm)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AtmosphereDensity(tt.alt); !scalar.EqualWithinRel(got, tt.want, 1e-12) {
				t.Fatalf("AtmosphereDensity(%v) = %v, want %v", tt.alt, got, tt.want)
			}
		})
	}
}

func TestAtmosphereDensityDecreasesWithAltitude(t *testing.T) {
	prev := AtmosphereDensity(0)
	for h := 1.0; h <= 120; h++ {
		cur := AtmosphereDensity(h)
		if cur <= 0 || cur >= prev {
			t.Fatalf("density at %v km = %v, previous %v", h, cur, prev)
		}
		prev = cur
	}
}
