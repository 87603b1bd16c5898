package nbi

import (
	"errors"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/nbi/types"
	"github.com/signalsfoundry/impact-simulator/internal/sim/session"
	"github.com/signalsfoundry/impact-simulator/kb"
	"github.com/signalsfoundry/impact-simulator/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatusError maps simulator errors onto gRPC status codes.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, kb.ErrPresetNotFound),
		errors.Is(err, kb.ErrMaterialNotFound),
		errors.Is(err, core.ErrMaterialNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, ErrInvalidSimulateRequest),
		errors.Is(err, ErrInvalidSampleRequest),
		errors.Is(err, ErrInvalidEnergyRequest),
		errors.Is(err, ErrInvalidSessionRequest),
		errors.Is(err, types.ErrMalformed),
		errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidMaterial),
		errors.Is(err, session.ErrUnknownPhase),
		errors.Is(err, kb.ErrInvalidEntry):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, kb.ErrPresetExists),
		errors.Is(err, kb.ErrMaterialExists):
		return status.Error(codes.AlreadyExists, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}
