package core

import (
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/signalsfoundry/impact-simulator/kb"
)

func TestLoadCatalogPopulatesStore(t *testing.T) {
	jsonData := `
{
  "materials": [
    {
      "id": "Rubble",
      "name": "Rubble Pile",
      "density": 1400,
      "ablation_coefficient": 4e-5,
      "base_heating_rate": 2600,
      "initial_temperature": -60
    }
  ],
  "presets": [
    {
      "id": "65803",
      "name": "65803 Didymos",
      "diameter_km": 0.78,
      "velocity_km_h": 86400,
      "material": "rubble"
    },
    {
      "id": "test-da",
      "name": "Calibrated",
      "diameter_km": 1.3,
      "velocity_km_s": 14.1,
      "material": "rubble",
      "target_impact_velocity_km_s": 17.97,
      "target_final_diameter_km": 0.792
    }
  ]
}
`
	cat := kb.NewCatalog()

	summary, err := LoadCatalog(cat, strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}
	if len(summary.MaterialIDs) != 1 || summary.MaterialIDs[0] != "rubble" {
		t.Fatalf("material ids = %v, want [rubble]", summary.MaterialIDs)
	}
	if len(summary.PresetIDs) != 2 {
		t.Fatalf("preset ids = %v, want 2", summary.PresetIDs)
	}

	m, err := cat.GetMaterial("rubble")
	if err != nil {
		t.Fatalf("GetMaterial error: %v", err)
	}
	if m.VelocityChangeCoefficient != 1 {
		t.Errorf("velocity change coefficient = %v, want default 1", m.VelocityChangeCoefficient)
	}

	didymos, err := cat.GetPreset("65803")
	if err != nil {
		t.Fatalf("GetPreset error: %v", err)
	}
	if !scalar.EqualWithinAbs(didymos.VelocityKmS, 24, 1e-9) {
		t.Errorf("velocity = %v km/s, want 24 from km/h", didymos.VelocityKmS)
	}

	calibrated, _ := cat.GetPreset("test-da")
	if calibrated.Override == nil || calibrated.Override.TargetFinalDiameterKm != 0.792 {
		t.Errorf("override = %+v", calibrated.Override)
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "malformed", json: `{"materials": [`},
		{name: "unknown field", json: `{"asteroids": []}`},
		{name: "empty preset id", json: `{"presets": [{"diameter_km": 1, "velocity_km_s": 1}]}`},
		{name: "unknown material", json: `{"presets": [{"id": "x", "diameter_km": 1, "velocity_km_s": 1, "material": "nope"}]}`},
		{name: "half override", json: `{"presets": [{"id": "x", "diameter_km": 1, "velocity_km_s": 1, "target_final_diameter_km": 0.5}]}`},
		{name: "zero velocity", json: `{"presets": [{"id": "x", "diameter_km": 1}]}`},
		{name: "bad material", json: `{"materials": [{"id": "x", "density": 0}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := kb.NewCatalog()
			if err := SeedCatalog(cat); err != nil {
				t.Fatalf("SeedCatalog error: %v", err)
			}
			if _, err := LoadCatalog(cat, strings.NewReader(tt.json)); !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("err = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	cat := kb.NewCatalog()
	for i := 0; i < 2; i++ {
		if err := SeedCatalog(cat); err != nil {
			t.Fatalf("SeedCatalog pass %d error: %v", i, err)
		}
	}
	if got := len(cat.ListMaterials()); got != len(DefaultMaterials()) {
		t.Fatalf("materials = %d, want %d", got, len(DefaultMaterials()))
	}
	if got := len(cat.ListPresets()); got != len(DefaultPresets()) {
		t.Fatalf("presets = %d, want %d", got, len(DefaultPresets()))
	}
}

func TestLoadCatalogNilStore(t *testing.T) {
	if _, err := LoadCatalog(nil, strings.NewReader(`{}`)); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("err = %v, want ErrInvalidCatalog", err)
	}
}

func TestLoadCatalogKeepsExplicitZeroVelocityCoefficient(t *testing.T) {
	jsonData := `{"materials": [{"id": "dragless", "density": 2000, "velocity_change_coefficient": 0}]}`
	cat := kb.NewCatalog()

	if _, err := LoadCatalog(cat, strings.NewReader(jsonData)); err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}
	m, err := cat.GetMaterial("dragless")
	if err != nil {
		t.Fatalf("GetMaterial error: %v", err)
	}
	if m.VelocityChangeCoefficient != 0 {
		t.Fatalf("velocity change coefficient = %v, want explicit 0 kept", m.VelocityChangeCoefficient)
	}
}
