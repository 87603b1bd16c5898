package core

import (
	"math"

	"github.com/signalsfoundry/impact-simulator/model"
)

// Reconcile adjusts both phase trajectories so playback lands on the
// authoritative terminal values of a calibrated body.
//
// Velocity is interpolated linearly from the entry velocity to the target
// over the combined duration of both phases. Diameter keeps the shape of
// the integrated shrinkage but its total loss is rescaled to reach the
// target diameter; when the integrator produced no loss at all the
// diameter is interpolated linearly instead. Altitude is left untouched.
// The input trajectories are not modified.
func Reconcile(phase1, phase2 model.Trajectory, entry model.EntryParameters) (model.Trajectory, model.Trajectory) {
	if entry.Override == nil {
		return phase1, phase2
	}
	target := *entry.Override

	offset := phase1.Duration()
	total := offset + phase2.Duration()

	d0 := entry.InitialDiameterKm
	rawEnd := d0
	if last, ok := phase2.Last(); ok {
		rawEnd = last.DiameterKm
	} else if last, ok := phase1.Last(); ok {
		rawEnd = last.DiameterKm
	}
	rawLoss := d0 - rawEnd
	targetLoss := d0 - target.TargetFinalDiameterKm

	adjust := func(s model.SimulationState, globalT float64) model.SimulationState {
		frac := 1.0
		if total > 0 {
			frac = globalT / total
		}
		s.VelocityKmS = math.Max(0, entry.EntryVelocityKmS+(target.TargetImpactVelocityKmS-entry.EntryVelocityKmS)*frac)

		if rawLoss > 1e-12 {
			s.DiameterKm = d0 - (d0-s.DiameterKm)*targetLoss/rawLoss
		} else {
			s.DiameterKm = d0 - targetLoss*frac
		}
		s.DiameterKm = math.Max(0, s.DiameterKm)
		return s
	}

	out1 := model.Trajectory{Phase: phase1.Phase, States: make([]model.SimulationState, len(phase1.States))}
	for i, s := range phase1.States {
		out1.States[i] = adjust(s, s.ElapsedTimeS)
	}
	out2 := model.Trajectory{Phase: phase2.Phase, States: make([]model.SimulationState, len(phase2.States))}
	for i, s := range phase2.States {
		out2.States[i] = adjust(s, offset+s.ElapsedTimeS)
	}

	// Land exactly on the authoritative values despite float rounding.
	if n := len(out2.States); n > 0 {
		out2.States[n-1].VelocityKmS = math.Max(0, target.TargetImpactVelocityKmS)
		out2.States[n-1].DiameterKm = math.Max(0, target.TargetFinalDiameterKm)
	}
	return out1, out2
}
