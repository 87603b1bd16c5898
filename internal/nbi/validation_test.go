package nbi

import (
	"errors"
	"testing"

	"github.com/signalsfoundry/impact-simulator/internal/nbi/types"
	"github.com/signalsfoundry/impact-simulator/model"
)

func floatPtr(v float64) *float64 { return &v }

func TestValidateSimulateRequest(t *testing.T) {
	valid := []types.SimulateRequest{
		{PresetID: "433"},
		{DiameterKm: 0.5, VelocityKmS: 16.7},
		{DiameterKm: 0.5, VelocityKmS: 16.7, AngleDeg: floatPtr(0)},
		{PresetID: "433", AngleDeg: floatPtr(90), Target: &model.GeoPoint{LatitudeDeg: -90, LongitudeDeg: 180}},
	}
	for _, req := range valid {
		if err := ValidateSimulateRequest(req); err != nil {
			t.Fatalf("ValidateSimulateRequest(%+v) = %v, want nil", req, err)
		}
	}

	tests := []struct {
		name string
		req  types.SimulateRequest
	}{
		{name: "empty", req: types.SimulateRequest{}},
		{name: "missing velocity", req: types.SimulateRequest{DiameterKm: 1}},
		{name: "negative diameter on preset", req: types.SimulateRequest{PresetID: "433", DiameterKm: -1}},
		{name: "angle too steep", req: types.SimulateRequest{PresetID: "433", AngleDeg: floatPtr(91)}},
		{name: "angle negative", req: types.SimulateRequest{PresetID: "433", AngleDeg: floatPtr(-1)}},
		{name: "latitude out of range", req: types.SimulateRequest{PresetID: "433", Target: &model.GeoPoint{LatitudeDeg: 91}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateSimulateRequest(tc.req); !errors.Is(err, ErrInvalidSimulateRequest) {
				t.Fatalf("ValidateSimulateRequest() = %v, want ErrInvalidSimulateRequest", err)
			}
		})
	}
}

func TestValidateSampleRequest(t *testing.T) {
	if err := ValidateSampleRequest(types.SampleRequest{SessionID: "s", TimeS: floatPtr(0)}); err != nil {
		t.Fatalf("single sample: %v", err)
	}
	if err := ValidateSampleRequest(types.SampleRequest{SessionID: "s", StepS: 0.5}); err != nil {
		t.Fatalf("whole-phase series: %v", err)
	}

	tests := []struct {
		name string
		req  types.SampleRequest
	}{
		{name: "missing session", req: types.SampleRequest{TimeS: floatPtr(1)}},
		{name: "missing time", req: types.SampleRequest{SessionID: "s"}},
		{name: "negative step", req: types.SampleRequest{SessionID: "s", StepS: -1}},
		{name: "reversed span", req: types.SampleRequest{SessionID: "s", StepS: 1, FromS: 3, ToS: 2}},
		{name: "negative start", req: types.SampleRequest{SessionID: "s", StepS: 1, FromS: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateSampleRequest(tc.req); !errors.Is(err, ErrInvalidSampleRequest) {
				t.Fatalf("ValidateSampleRequest() = %v, want ErrInvalidSampleRequest", err)
			}
		})
	}
}

func TestValidateEnergyRequest(t *testing.T) {
	if err := ValidateEnergyRequest(types.EnergyRequest{DiameterKm: 0.5, VelocityKmS: 16.7}); err != nil {
		t.Fatalf("valid request: %v", err)
	}
	for _, req := range []types.EnergyRequest{
		{VelocityKmS: 1},
		{DiameterKm: 1},
		{DiameterKm: 1, VelocityKmS: 1, Density: -5},
	} {
		if err := ValidateEnergyRequest(req); !errors.Is(err, ErrInvalidEnergyRequest) {
			t.Fatalf("ValidateEnergyRequest(%+v) = %v, want ErrInvalidEnergyRequest", req, err)
		}
	}
}

func TestSeriesLen(t *testing.T) {
	if got := seriesLen(0, 1, 0.1); got != 12 {
		t.Fatalf("seriesLen(0,1,0.1) = %d, want 12", got)
	}
	if got := seriesLen(1, 0, 0.1); got != 0 {
		t.Fatalf("reversed span = %d, want 0", got)
	}
}
