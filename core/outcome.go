package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/impact-simulator/model"
)

// Classify produces the terminal outcome once the low-altitude phase has
// ended. phase1 is consulted only to locate the burst point of a body that
// disintegrated before the hand-off.
func Classify(phase1, phase2 model.Trajectory, m model.MaterialProfile, reason TerminationReason) model.OutcomeResult {
	final, ok := phase2.Last()
	if !ok {
		final, _ = phase1.Last()
	}

	out := model.OutcomeResult{
		FinalDiameterKm:  final.DiameterKm,
		FinalVelocityKmS: final.VelocityKmS,
	}

	if reason == TerminatedDegenerate {
		// Only a body spent at launch carries no energy. One that burned up
		// during the high-altitude phase is an ordinary airburst.
		if _, ok := lastIntact(phase1, phase2); !ok {
			out.Class = model.OutcomeAirburst
			out.Warnings = append(out.Warnings, "body spent before entry")
			return out
		}
		out.Warnings = append(out.Warnings, "body disintegrated before the low-altitude phase")
	}

	if reason == TerminatedRunaway {
		out.Runaway = true
		out.Warnings = append(out.Warnings, fmt.Sprintf(
			"descent did not terminate within bound; classified at altitude %.2f km", final.AltitudeKm))
	}

	if final.DiameterKm <= AirburstDiameterKm {
		out.Class = model.OutcomeAirburst
		if last, ok := lastIntact(phase1, phase2); ok {
			out.Energy = ImpactEnergy(last.DiameterKm, last.VelocityKmS, m.Density)
			out.EnergyMegatons = out.Energy.Megatons
		}
		if alt, ok := burstAltitude(phase1, phase2); ok {
			out.BurstAltitudeKm = &alt
		}
		return out
	}

	out.Class = model.OutcomeImpact
	energy, c := ImpactConsequences(final.DiameterKm, final.VelocityKmS, m.Density)
	out.Energy = energy
	out.EnergyMegatons = energy.Megatons
	out.CraterDiameterM = c.CraterDiameterM
	out.TsunamiHeightM = c.TsunamiHeightM
	out.FireballRadiusM = c.FireballRadiusM
	out.EarthquakeMagnitude = c.EarthquakeMagnitude
	return out
}

// Consequences are the ground-impact metrics. A nil field means the
// formula is undefined for the input.
type Consequences struct {
	CraterDiameterM     *float64
	FireballRadiusM     *float64
	TsunamiHeightM      *float64
	EarthquakeMagnitude *float64
}

// ImpactConsequences computes energy and consequence metrics for a body
// striking rock. The tsunami estimate needs a defined crater.
func ImpactConsequences(diameterKm, velocityKmS, density float64) (model.EnergyBreakdown, Consequences) {
	energy := ImpactEnergy(diameterKm, velocityKmS, density)

	var c Consequences
	crater := CraterDiameterMeters(density, TargetRockDensity, diameterKm*1000, velocityKmS*1000)
	c.CraterDiameterM = defined(crater)
	if c.CraterDiameterM != nil {
		c.TsunamiHeightM = defined(TsunamiHeightMeters(crater))
	}
	c.FireballRadiusM = defined(FireballRadiusMeters(energy.Megatons))
	c.EarthquakeMagnitude = defined(EarthquakeMagnitude(energy.Megatons))
	return energy, c
}

// lastIntact returns the latest snapshot that still had size and speed.
func lastIntact(phase1, phase2 model.Trajectory) (model.SimulationState, bool) {
	for _, traj := range []model.Trajectory{phase2, phase1} {
		for i := len(traj.States) - 1; i >= 0; i-- {
			s := traj.States[i]
			if s.DiameterKm > 0 && s.VelocityKmS > 0 {
				return s, true
			}
		}
	}
	return model.SimulationState{}, false
}

// burstAltitude is the altitude of the first snapshot at or below the
// airburst threshold.
func burstAltitude(phase1, phase2 model.Trajectory) (float64, bool) {
	for _, traj := range []model.Trajectory{phase1, phase2} {
		for _, s := range traj.States {
			if s.DiameterKm <= AirburstDiameterKm {
				return s.AltitudeKm, true
			}
		}
	}
	return 0, false
}

func defined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
