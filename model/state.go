package model

// SimulationState is one snapshot of the descending body.
type SimulationState struct {
	ElapsedTimeS      float64 `json:"t"`
	AltitudeKm        float64 `json:"altitude_km"`
	VelocityKmS       float64 `json:"velocity_km_s"`
	DiameterKm        float64 `json:"diameter_km"`
	TemperatureC      float64 `json:"temperature_c"`
	AtmosphereDensity float64 `json:"atmosphere_density"` // kg/m³ at AltitudeKm
}

// Trajectory is the ordered snapshot sequence produced by a single phase.
// Consumers treat it as read-only.
type Trajectory struct {
	Phase  string            `json:"phase"`
	States []SimulationState `json:"states"`
}

// Len returns the number of snapshots.
func (t Trajectory) Len() int { return len(t.States) }

// First returns the first snapshot and false when the trajectory is empty.
func (t Trajectory) First() (SimulationState, bool) {
	if len(t.States) == 0 {
		return SimulationState{}, false
	}
	return t.States[0], true
}

// Last returns the final snapshot and false when the trajectory is empty.
func (t Trajectory) Last() (SimulationState, bool) {
	if len(t.States) == 0 {
		return SimulationState{}, false
	}
	return t.States[len(t.States)-1], true
}

// Duration is the elapsed time spanned by the trajectory in seconds.
func (t Trajectory) Duration() float64 {
	first, ok := t.First()
	if !ok {
		return 0
	}
	last, _ := t.Last()
	return last.ElapsedTimeS - first.ElapsedTimeS
}
