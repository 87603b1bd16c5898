package model

// PresetOverride carries authoritative terminal values for calibrated
// real-world bodies. When present they take precedence over raw
// integrator output at the end of the descent.
type PresetOverride struct {
	TargetImpactVelocityKmS float64 `json:"target_impact_velocity_km_s"`
	TargetFinalDiameterKm   float64 `json:"target_final_diameter_km"`
}

// GeoPoint is a geodetic position in degrees.
type GeoPoint struct {
	LatitudeDeg  float64 `json:"lat"`
	LongitudeDeg float64 `json:"lng"`
}

// EntryParameters is created once per launch from user input or a preset.
type EntryParameters struct {
	InitialDiameterKm float64         `json:"initial_diameter_km"`
	EntryVelocityKmS  float64         `json:"entry_velocity_km_s"`
	EntryAngleDeg     float64         `json:"entry_angle_deg"`
	Material          MaterialProfile `json:"material"`
	Override          *PresetOverride `json:"preset_override,omitempty"`

	// Target and AzimuthDeg are optional; when Target is set the result
	// carries a ground track ending at it.
	Target     *GeoPoint `json:"target,omitempty"`
	AzimuthDeg float64   `json:"azimuth_deg,omitempty"`
}
