package core

import (
	"fmt"
	"strings"

	"github.com/signalsfoundry/impact-simulator/model"
)

// Built-in material ids.
const (
	MaterialStony        = "stony"
	MaterialIron         = "iron"
	MaterialMetallic     = "metallic"
	MaterialCarbonaceous = "carbonaceous"
	MaterialIce          = "ice"
)

var defaultMaterials = []model.MaterialProfile{
	{
		ID:                        MaterialStony,
		Name:                      "Stony Asteroid",
		Density:                   3000,
		AblationCoefficient:       1.5e-5,
		BaseHeatingRate:           2400,
		InitialTemperature:        -50,
		VelocityChangeCoefficient: 1.0,
	},
	{
		ID:                        MaterialIron,
		Name:                      "Iron Asteroid",
		Density:                   7800,
		AblationCoefficient:       5e-6,
		BaseHeatingRate:           1800,
		InitialTemperature:        -50,
		VelocityChangeCoefficient: 1.0,
	},
	{
		ID:                        MaterialMetallic,
		Name:                      "Metallic Asteroid",
		Density:                   5300,
		AblationCoefficient:       8e-6,
		BaseHeatingRate:           2000,
		InitialTemperature:        -50,
		VelocityChangeCoefficient: 1.0,
	},
	{
		ID:                        MaterialCarbonaceous,
		Name:                      "Carbonaceous Asteroid",
		Density:                   1700,
		AblationCoefficient:       3e-5,
		BaseHeatingRate:           2800,
		InitialTemperature:        -70,
		VelocityChangeCoefficient: 1.0,
	},
	{
		ID:                        MaterialIce,
		Name:                      "Ice Asteroid",
		Density:                   917,
		AblationCoefficient:       6e-5,
		BaseHeatingRate:           1200,
		InitialTemperature:        -150,
		VelocityChangeCoefficient: 1.0,
	},
}

// DefaultMaterials returns a copy of the built-in composition table.
func DefaultMaterials() []model.MaterialProfile {
	out := make([]model.MaterialProfile, len(defaultMaterials))
	copy(out, defaultMaterials)
	return out
}

// DefaultMaterial is the profile used when the caller has no class.
func DefaultMaterial() model.MaterialProfile {
	return defaultMaterials[0]
}

// LookupMaterial resolves a built-in profile by id or by
// case-insensitive display name.
func LookupMaterial(key string) (model.MaterialProfile, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, m := range defaultMaterials {
		if m.ID == k || strings.ToLower(m.Name) == k {
			return m, nil
		}
	}
	return model.MaterialProfile{}, fmt.Errorf("%w: %q", ErrMaterialNotFound, key)
}
