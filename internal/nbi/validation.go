package nbi

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/signalsfoundry/impact-simulator/internal/nbi/types"
)

var (
	ErrInvalidSimulateRequest = errors.New("invalid simulate request")
	ErrInvalidSampleRequest   = errors.New("invalid sample request")
	ErrInvalidEnergyRequest   = errors.New("invalid energy request")
	ErrInvalidSessionRequest  = errors.New("invalid session request")
)

// MaxSeriesSamples bounds one SampleAt series response.
const MaxSeriesSamples = 10000

// ValidateSimulateRequest checks the request shape. Physical ranges are
// enforced again by the simulator once the preset is resolved.
func ValidateSimulateRequest(req types.SimulateRequest) error {
	if strings.TrimSpace(req.PresetID) == "" {
		if req.DiameterKm <= 0 || req.VelocityKmS <= 0 {
			return fmt.Errorf("%w: preset_id or both diameter_km and velocity_km_s are required", ErrInvalidSimulateRequest)
		}
	}
	if req.DiameterKm < 0 || req.VelocityKmS < 0 {
		return fmt.Errorf("%w: diameter_km and velocity_km_s must not be negative", ErrInvalidSimulateRequest)
	}
	if req.AngleDeg != nil && (*req.AngleDeg < 0 || *req.AngleDeg > 90) {
		return fmt.Errorf("%w: angle_deg must be within [0, 90], got %g", ErrInvalidSimulateRequest, *req.AngleDeg)
	}
	if t := req.Target; t != nil {
		if math.Abs(t.LatitudeDeg) > 90 || math.Abs(t.LongitudeDeg) > 180 {
			return fmt.Errorf("%w: target (%g, %g) out of range", ErrInvalidSimulateRequest, t.LatitudeDeg, t.LongitudeDeg)
		}
	}
	return nil
}

// ValidateSampleRequest checks that a session is addressed and the query
// is either a single time or a bounded series.
func ValidateSampleRequest(req types.SampleRequest) error {
	if strings.TrimSpace(req.SessionID) == "" {
		return fmt.Errorf("%w: session_id is required", ErrInvalidSampleRequest)
	}
	if req.StepS < 0 {
		return fmt.Errorf("%w: step_s must not be negative", ErrInvalidSampleRequest)
	}
	if req.StepS == 0 {
		if req.TimeS == nil {
			return fmt.Errorf("%w: t or step_s is required", ErrInvalidSampleRequest)
		}
		return nil
	}
	if req.FromS < 0 || req.ToS < 0 {
		return fmt.Errorf("%w: from_s and to_s must not be negative", ErrInvalidSampleRequest)
	}
	if req.ToS != 0 && req.ToS < req.FromS {
		return fmt.Errorf("%w: to_s %g precedes from_s %g", ErrInvalidSampleRequest, req.ToS, req.FromS)
	}
	return nil
}

// ValidateEnergyRequest checks the body parameters.
func ValidateEnergyRequest(req types.EnergyRequest) error {
	if req.DiameterKm <= 0 {
		return fmt.Errorf("%w: diameter_km must be > 0", ErrInvalidEnergyRequest)
	}
	if req.VelocityKmS <= 0 {
		return fmt.Errorf("%w: velocity_km_s must be > 0", ErrInvalidEnergyRequest)
	}
	if req.Density < 0 {
		return fmt.Errorf("%w: density must not be negative", ErrInvalidEnergyRequest)
	}
	return nil
}

// seriesLen bounds the number of samples SampleSeries returns for the
// span, counting a possible trailing sample at toS.
func seriesLen(fromS, toS, stepS float64) int {
	if stepS <= 0 || toS < fromS {
		return 0
	}
	return int(math.Floor((toS-fromS)/stepS+1e-9)) + 2
}
