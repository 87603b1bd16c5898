package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signalsfoundry/impact-simulator/kb"
	"github.com/signalsfoundry/impact-simulator/model"
)

// CatalogSummary lists what a load added to the catalog.
type CatalogSummary struct {
	MaterialIDs []string
	PresetIDs   []string
}

type catalogJSON struct {
	Materials []materialJSON `json:"materials"`
	Presets   []presetJSON   `json:"presets"`
}

// materialJSON tells an absent velocity_change_coefficient, which defaults
// to 1, from an explicit 0.
type materialJSON struct {
	model.MaterialProfile
	VelocityChangeCoefficient *float64 `json:"velocity_change_coefficient"`
}

type presetJSON struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Nickname             string  `json:"nickname"`
	DiameterKm           float64 `json:"diameter_km"`
	VelocityKmS          float64 `json:"velocity_km_s"`
	VelocityKmH          float64 `json:"velocity_km_h"` // used when velocity_km_s is absent
	DistanceKm           float64 `json:"distance_km"`
	PotentiallyHazardous bool    `json:"is_potentially_hazardous"`
	Material             string  `json:"material"`

	TargetImpactVelocityKmS *float64 `json:"target_impact_velocity_km_s"`
	TargetFinalDiameterKm   *float64 `json:"target_final_diameter_km"`
}

// LoadCatalog decodes a JSON catalog from r and adds its materials and
// presets to cat. Materials are added first so presets may reference
// them; a preset naming a material that is neither in the document nor
// already in cat is rejected.
func LoadCatalog(cat *kb.Catalog, r io.Reader) (*CatalogSummary, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}

	var payload catalogJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode failed: %v", ErrInvalidCatalog, err)
	}

	summary := &CatalogSummary{
		MaterialIDs: make([]string, 0, len(payload.Materials)),
		PresetIDs:   make([]string, 0, len(payload.Presets)),
	}

	for _, mj := range payload.Materials {
		m := mj.MaterialProfile
		m.ID = normalizeID(m.ID)
		m.VelocityChangeCoefficient = 1
		if mj.VelocityChangeCoefficient != nil {
			m.VelocityChangeCoefficient = *mj.VelocityChangeCoefficient
		}
		if err := cat.AddMaterial(m); err != nil {
			return nil, fmt.Errorf("%w: material %q: %v", ErrInvalidCatalog, m.ID, err)
		}
		summary.MaterialIDs = append(summary.MaterialIDs, m.ID)
	}

	for _, js := range payload.Presets {
		if js.ID == "" {
			return nil, fmt.Errorf("%w: preset with empty id", ErrInvalidCatalog)
		}
		p := model.AsteroidPreset{
			ID:                   js.ID,
			Name:                 js.Name,
			Nickname:             js.Nickname,
			DiameterKm:           js.DiameterKm,
			VelocityKmS:          js.VelocityKmS,
			DistanceKm:           js.DistanceKm,
			PotentiallyHazardous: js.PotentiallyHazardous,
			MaterialID:           normalizeID(js.Material),
		}
		if p.VelocityKmS == 0 && js.VelocityKmH > 0 {
			p.VelocityKmS = kmhToKmS(js.VelocityKmH)
		}
		if p.MaterialID == "" {
			p.MaterialID = MaterialStony
		}
		if js.TargetImpactVelocityKmS != nil || js.TargetFinalDiameterKm != nil {
			if js.TargetImpactVelocityKmS == nil || js.TargetFinalDiameterKm == nil {
				return nil, fmt.Errorf("%w: preset %q: override needs both target velocity and diameter", ErrInvalidCatalog, p.ID)
			}
			p.Override = &model.PresetOverride{
				TargetImpactVelocityKmS: *js.TargetImpactVelocityKmS,
				TargetFinalDiameterKm:   *js.TargetFinalDiameterKm,
			}
		}
		if p.DiameterKm <= 0 || p.VelocityKmS <= 0 {
			return nil, fmt.Errorf("%w: preset %q: diameter and velocity must be positive", ErrInvalidCatalog, p.ID)
		}
		if _, err := cat.GetMaterial(p.MaterialID); err != nil {
			return nil, fmt.Errorf("%w: preset %q: %v", ErrInvalidCatalog, p.ID, err)
		}
		if err := cat.AddPreset(p); err != nil {
			return nil, fmt.Errorf("%w: preset %q: %v", ErrInvalidCatalog, p.ID, err)
		}
		summary.PresetIDs = append(summary.PresetIDs, p.ID)
	}

	return summary, nil
}

// SeedCatalog adds the built-in materials and presets to cat. Entries
// that already exist are left alone.
func SeedCatalog(cat *kb.Catalog) error {
	for _, m := range DefaultMaterials() {
		if err := cat.AddMaterial(m); err != nil && !errors.Is(err, kb.ErrMaterialExists) {
			return err
		}
	}
	for _, p := range DefaultPresets() {
		if err := cat.AddPreset(p); err != nil && !errors.Is(err, kb.ErrPresetExists) {
			return err
		}
	}
	return nil
}

func normalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
