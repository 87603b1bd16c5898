package core

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/signalsfoundry/impact-simulator/model"
)

func TestSummarize(t *testing.T) {
	p1 := model.Trajectory{States: []model.SimulationState{
		{ElapsedTimeS: 0, VelocityKmS: 10, DiameterKm: 1, TemperatureC: -50, AtmosphereDensity: 0.001},
		{ElapsedTimeS: 1, VelocityKmS: 9, DiameterKm: 0.9, TemperatureC: 100, AtmosphereDensity: 0.01},
	}}
	p2 := model.Trajectory{States: []model.SimulationState{
		{ElapsedTimeS: 0, VelocityKmS: 9, DiameterKm: 0.9, TemperatureC: 100, AtmosphereDensity: 0.01},
		{ElapsedTimeS: 0.5, VelocityKmS: 8, DiameterKm: 0.8, TemperatureC: 900, AtmosphereDensity: 1},
	}}

	sum := Summarize(p1, p2, 1)

	checks := []struct {
		name      string
		got, want float64
	}{
		{name: "peak pressure", got: sum.PeakDynamicPressurePa, want: 0.5 * 1 * 8000 * 8000},
		{name: "peak deceleration", got: sum.PeakDecelerationMS2, want: 2000},
		{name: "peak temperature", got: sum.PeakTemperatureC, want: 900},
		{name: "mean velocity", got: sum.MeanVelocityKmS, want: 9},
		{name: "loss fraction", got: sum.DiameterLossFraction, want: 0.2},
		{name: "duration", got: sum.TotalDurationS, want: 1.5},
	}
	for _, c := range checks {
		if !scalar.EqualWithinAbs(c.got, c.want, 1e-9) {
			t.Fatalf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestSummarizeAccelerationOnlyReportsZeroDeceleration(t *testing.T) {
	p2 := model.Trajectory{States: []model.SimulationState{
		{ElapsedTimeS: 0, VelocityKmS: 10, DiameterKm: 1},
		{ElapsedTimeS: 1, VelocityKmS: 11, DiameterKm: 1},
	}}
	if got := Summarize(model.Trajectory{}, p2, 1).PeakDecelerationMS2; got != 0 {
		t.Fatalf("PeakDecelerationMS2 = %v, want 0", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(model.Trajectory{}, model.Trajectory{}, 1); got != (model.TrajectorySummary{}) {
		t.Fatalf("Summarize(empty) = %+v", got)
	}
}
