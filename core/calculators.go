package core

import (
	"math"

	"github.com/signalsfoundry/impact-simulator/model"
)

const (
	// JoulesPerMegaton is the TNT equivalence factor.
	JoulesPerMegaton = 4.184e15
	// TargetRockDensity is the default crater target density in kg/m³.
	TargetRockDensity = 2750.0
	// AirburstDiameterKm is the diameter at or below which a body is
	// considered disintegrated.
	AirburstDiameterKm = 0.001
)

// MassKg returns the mass of a sphere of diameterKm at density kg/m³.
func MassKg(diameterKm, density float64) float64 {
	if diameterKm <= 0 {
		return 0
	}
	r := diameterKm * 1000 / 2
	return (4.0 / 3.0) * math.Pi * r * r * r * density
}

// KineticEnergyJoules returns 0.5·m·v² for v in m/s.
func KineticEnergyJoules(massKg, velocityMS float64) float64 {
	return 0.5 * massKg * velocityMS * velocityMS
}

// MegatonsTNT converts joules to megatons of TNT.
func MegatonsTNT(joules float64) float64 {
	return joules / JoulesPerMegaton
}

// CraterDiameterMeters applies the empirical scaling law
// 1.161·(ρi/ρt)^(1/3)·d^0.78·v^0.44·g^−0.22. It returns 0 for
// non-positive diameter, velocity or densities.
func CraterDiameterMeters(impactorDensity, targetDensity, impactorDiameterM, impactVelocityMS float64) float64 {
	if impactorDiameterM <= 0 || impactVelocityMS <= 0 || impactorDensity <= 0 || targetDensity <= 0 {
		return 0
	}
	return 1.161 *
		math.Cbrt(impactorDensity/targetDensity) *
		math.Pow(impactorDiameterM, 0.78) *
		math.Pow(impactVelocityMS, 0.44) *
		math.Pow(Gravity, -0.22)
}

// EarthquakeMagnitude returns 0.67·log10(E·4.184e15) − 5.87, or NaN for
// non-positive energy.
func EarthquakeMagnitude(energyMegatons float64) float64 {
	if energyMegatons <= 0 {
		return math.NaN()
	}
	return 0.67*math.Log10(energyMegatons*JoulesPerMegaton) - 5.87
}

// FireballRadiusMeters returns 160·E^(1/3), or NaN for non-positive energy.
func FireballRadiusMeters(energyMegatons float64) float64 {
	if energyMegatons <= 0 {
		return math.NaN()
	}
	return 160 * math.Cbrt(energyMegatons)
}

// TsunamiHeightMeters returns craterDiameter/48.
func TsunamiHeightMeters(craterDiameterM float64) float64 {
	return craterDiameterM / 48
}

// ImpactEnergy returns the kinetic energy of a body in every display unit.
func ImpactEnergy(diameterKm, velocityKmS, density float64) model.EnergyBreakdown {
	mass := MassKg(diameterKm, density)
	v := velocityKmS * 1000
	if v < 0 {
		v = 0
	}
	joules := KineticEnergyJoules(mass, v)
	mt := MegatonsTNT(joules)
	return model.EnergyBreakdown{
		MassKg:   mass,
		Joules:   joules,
		Kilotons: mt * 1000,
		Megatons: mt,
		Gigatons: mt / 1000,
	}
}
