package model

import (
	"errors"
	"fmt"
)

// ErrInvalidMaterial indicates a material profile failed validation.
var ErrInvalidMaterial = errors.New("invalid material profile")

// MaterialProfile describes an asteroid composition class. Profiles are
// selected at launch and never mutated afterwards.
type MaterialProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Density             float64 `json:"density"`              // kg/m³
	AblationCoefficient float64 `json:"ablation_coefficient"` // km/s
	BaseHeatingRate     float64 `json:"base_heating_rate"`    // °C/s at sea-level density
	InitialTemperature  float64 `json:"initial_temperature"`  // °C

	// VelocityChangeCoefficient scales drag deceleration. 1.0 leaves the
	// drag model untouched.
	VelocityChangeCoefficient float64 `json:"velocity_change_coefficient"`
}

// Validate checks the profile invariants: density is strictly positive
// (it is used as a divisor) and the rate fields are non-negative.
func (m MaterialProfile) Validate() error {
	if m.Density <= 0 {
		return fmt.Errorf("%w: density must be > 0, got %g", ErrInvalidMaterial, m.Density)
	}
	if m.AblationCoefficient < 0 {
		return fmt.Errorf("%w: ablation coefficient must be >= 0, got %g", ErrInvalidMaterial, m.AblationCoefficient)
	}
	if m.BaseHeatingRate < 0 {
		return fmt.Errorf("%w: base heating rate must be >= 0, got %g", ErrInvalidMaterial, m.BaseHeatingRate)
	}
	if m.VelocityChangeCoefficient < 0 {
		return fmt.Errorf("%w: velocity change coefficient must be >= 0, got %g", ErrInvalidMaterial, m.VelocityChangeCoefficient)
	}
	return nil
}
