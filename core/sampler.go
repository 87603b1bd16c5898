package core

import (
	"math"
	"sort"

	"github.com/signalsfoundry/impact-simulator/model"
)

// SampleAt returns the state of traj at timeS. Times before the first
// snapshot return the first snapshot and times after the last return the
// last; in between each field is interpolated linearly between the
// bracketing snapshots. An empty trajectory yields the zero state.
func SampleAt(traj model.Trajectory, timeS float64) model.SimulationState {
	states := traj.States
	n := len(states)
	if n == 0 {
		return model.SimulationState{}
	}
	if timeS <= states[0].ElapsedTimeS {
		return states[0]
	}
	if timeS >= states[n-1].ElapsedTimeS {
		return states[n-1]
	}

	i := sort.Search(n, func(i int) bool { return states[i].ElapsedTimeS >= timeS })
	s1 := states[i]
	if s1.ElapsedTimeS == timeS {
		return s1
	}
	s0 := states[i-1]

	span := s1.ElapsedTimeS - s0.ElapsedTimeS
	if span <= 0 {
		return s0
	}
	f := (timeS - s0.ElapsedTimeS) / span

	return model.SimulationState{
		ElapsedTimeS:      timeS,
		AltitudeKm:        lerp(s0.AltitudeKm, s1.AltitudeKm, f),
		VelocityKmS:       lerp(s0.VelocityKmS, s1.VelocityKmS, f),
		DiameterKm:        lerp(s0.DiameterKm, s1.DiameterKm, f),
		TemperatureC:      lerp(s0.TemperatureC, s1.TemperatureC, f),
		AtmosphereDensity: lerp(s0.AtmosphereDensity, s1.AtmosphereDensity, f),
	}
}

// SampleSeries samples traj every stepS seconds over [fromS, toS],
// clamped to the trajectory's own span. The last sample always lands on
// the end of the window.
func SampleSeries(traj model.Trajectory, fromS, toS, stepS float64) []model.SimulationState {
	first, ok := traj.First()
	if !ok || stepS <= 0 {
		return nil
	}
	last, _ := traj.Last()
	fromS = max(fromS, first.ElapsedTimeS)
	toS = min(toS, last.ElapsedTimeS)
	if toS < fromS {
		return nil
	}

	count := int(math.Floor((toS-fromS)/stepS+1e-9)) + 1
	out := make([]model.SimulationState, 0, count+1)
	for i := 0; i < count; i++ {
		out = append(out, SampleAt(traj, fromS+float64(i)*stepS))
	}
	if out[len(out)-1].ElapsedTimeS < toS {
		out = append(out, SampleAt(traj, toS))
	}
	return out
}

func lerp(a, b, f float64) float64 {
	return a + f*(b-a)
}
