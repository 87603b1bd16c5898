package model

// OutcomeClass is the terminal classification of a descent.
type OutcomeClass string

const (
	OutcomeImpact   OutcomeClass = "Impact"
	OutcomeAirburst OutcomeClass = "Airburst"
)

// EnergyBreakdown expresses kinetic energy in the units the UI displays.
type EnergyBreakdown struct {
	MassKg   float64 `json:"mass_kg"`
	Joules   float64 `json:"joules"`
	Kilotons float64 `json:"kilotons"`
	Megatons float64 `json:"megatons"`
	Gigatons float64 `json:"gigatons"`
}

// OutcomeResult is created once when the low-altitude phase ends.
// Consequence metrics are nil when they do not apply (airbursts) or are
// undefined for the computed energy.
type OutcomeResult struct {
	Class            OutcomeClass    `json:"class"`
	FinalDiameterKm  float64         `json:"final_diameter_km"`
	FinalVelocityKmS float64         `json:"final_velocity_km_s"`
	EnergyMegatons   float64         `json:"energy_megatons"`
	Energy           EnergyBreakdown `json:"energy"`

	CraterDiameterM     *float64 `json:"crater_diameter_m,omitempty"`
	FireballRadiusM     *float64 `json:"fireball_radius_m,omitempty"`
	TsunamiHeightM      *float64 `json:"tsunami_height_m,omitempty"`
	EarthquakeMagnitude *float64 `json:"earthquake_magnitude,omitempty"`

	// BurstAltitudeKm is the altitude at which an airburst body fell
	// below the disintegration threshold.
	BurstAltitudeKm *float64 `json:"burst_altitude_km,omitempty"`

	Runaway  bool     `json:"runaway,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// TrajectorySummary holds aggregate statistics over both phases.
type TrajectorySummary struct {
	PeakDynamicPressurePa float64 `json:"peak_dynamic_pressure_pa"`
	PeakDecelerationMS2   float64 `json:"peak_deceleration_m_s2"`
	PeakTemperatureC      float64 `json:"peak_temperature_c"`
	MeanVelocityKmS       float64 `json:"mean_velocity_km_s"`
	DiameterLossFraction  float64 `json:"diameter_loss_fraction"`
	TotalDurationS        float64 `json:"total_duration_s"`
}

// GroundTrackPoint places one snapshot on the globe.
type GroundTrackPoint struct {
	ElapsedTimeS float64    `json:"t"`
	Position     GeoPoint   `json:"position"`
	AltitudeKm   float64    `json:"altitude_km"`
	DownrangeKm  float64    `json:"downrange_km"`
	ECEFKm       [3]float64 `json:"ecef_km"`
}

// GroundTrack is the geodetic path of the low-altitude phase.
type GroundTrack struct {
	Target     GeoPoint           `json:"target"`
	AzimuthDeg float64            `json:"azimuth_deg"`
	EntryPoint GroundTrackPoint   `json:"entry_point"`
	Points     []GroundTrackPoint `json:"points"`
}

// SimulationResult is the full output of one launch.
type SimulationResult struct {
	Phase1     Trajectory        `json:"phase1"`
	Phase2     Trajectory        `json:"phase2"`
	Outcome    OutcomeResult     `json:"outcome"`
	Reconciled bool              `json:"reconciled"`
	Summary    TrajectorySummary `json:"summary"`
	Track      *GroundTrack      `json:"ground_track,omitempty"`
}
