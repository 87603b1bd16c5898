package core

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/signalsfoundry/impact-simulator/model"
)

// Summarize computes aggregate statistics over both phases of a descent.
// initialDiameterKm is the launch diameter the loss fraction is relative to.
func Summarize(phase1, phase2 model.Trajectory, initialDiameterKm float64) model.TrajectorySummary {
	n := len(phase1.States) + len(phase2.States)
	if n == 0 {
		return model.TrajectorySummary{}
	}

	velocities := make([]float64, 0, n)
	pressures := make([]float64, 0, n)
	temperatures := make([]float64, 0, n)
	decels := make([]float64, 0, n)

	for _, traj := range []model.Trajectory{phase1, phase2} {
		for i, s := range traj.States {
			velocities = append(velocities, s.VelocityKmS)
			pressures = append(pressures, DynamicPressure(s.AtmosphereDensity, s.VelocityKmS*1000))
			temperatures = append(temperatures, s.TemperatureC)
			if i == 0 {
				continue
			}
			prev := traj.States[i-1]
			if dt := s.ElapsedTimeS - prev.ElapsedTimeS; dt > 0 {
				decels = append(decels, (prev.VelocityKmS-s.VelocityKmS)*1000/dt)
			}
		}
	}

	sum := model.TrajectorySummary{
		PeakDynamicPressurePa: floats.Max(pressures),
		PeakTemperatureC:      floats.Max(temperatures),
		MeanVelocityKmS:       stat.Mean(velocities, nil),
		TotalDurationS:        phase1.Duration() + phase2.Duration(),
	}
	if len(decels) > 0 {
		sum.PeakDecelerationMS2 = max(0, floats.Max(decels))
	}

	final, ok := phase2.Last()
	if !ok {
		final, _ = phase1.Last()
	}
	if initialDiameterKm > 0 {
		sum.DiameterLossFraction = (initialDiameterKm - final.DiameterKm) / initialDiameterKm
	}
	return sum
}
