package core

import "math"

// Physical constants of the exponential atmosphere and entry geometry.
const (
	// SeaLevelDensity is ρ₀ in kg/m³.
	SeaLevelDensity = 1.225
	// ScaleHeightKm is the altitude over which density falls by 1/e.
	ScaleHeightKm = 8.5
	// Gravity is the surface gravitational acceleration in m/s².
	Gravity = 9.81
	// DragCoefficient is the sphere drag coefficient used by the integrator.
	DragCoefficient = 0.8
	// DefaultEntryAngleDeg is the entry angle used when none is supplied.
	DefaultEntryAngleDeg = 40.0
)

// AtmosphereDensity returns air density in kg/m³ at altitudeKm using
// ρ(h) = ρ₀·exp(−h/H). Negative altitudes are treated as sea level.
func AtmosphereDensity(altitudeKm float64) float64 {
	if altitudeKm < 0 {
		altitudeKm = 0
	}
	return SeaLevelDensity * math.Exp(-altitudeKm/ScaleHeightKm)
}

// DynamicPressure returns 0.5·ρ·v² in Pa for velocity in m/s.
func DynamicPressure(density, velocityMS float64) float64 {
	return 0.5 * density * velocityMS * velocityMS
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
