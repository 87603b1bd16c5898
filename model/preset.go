package model

// AsteroidPreset is a named real-world body the UI offers for launch.
type AsteroidPreset struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Nickname             string          `json:"nickname"`
	DiameterKm           float64         `json:"diameter_km"`
	VelocityKmS          float64         `json:"velocity_km_s"`
	DistanceKm           float64         `json:"distance_km,omitempty"`
	PotentiallyHazardous bool            `json:"is_potentially_hazardous"`
	MaterialID           string          `json:"material_id"`
	Override             *PresetOverride `json:"override,omitempty"`
}

// EntryParameters builds launch parameters for the preset using the given
// material and entry angle. The override is copied so callers cannot
// mutate the catalog entry through the result.
func (p AsteroidPreset) EntryParameters(material MaterialProfile, angleDeg float64) EntryParameters {
	params := EntryParameters{
		InitialDiameterKm: p.DiameterKm,
		EntryVelocityKmS:  p.VelocityKmS,
		EntryAngleDeg:     angleDeg,
		Material:          material,
	}
	if p.Override != nil {
		o := *p.Override
		params.Override = &o
	}
	return params
}
