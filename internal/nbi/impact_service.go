package nbi

import (
	"context"
	"fmt"
	"strings"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/nbi/types"
	"github.com/signalsfoundry/impact-simulator/internal/sim/session"
	"github.com/signalsfoundry/impact-simulator/kb"
	"github.com/signalsfoundry/impact-simulator/model"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ImpactService implements ImpactServiceServer on top of the catalog, the
// simulator and the session store.
type ImpactService struct {
	catalog  *kb.Catalog
	sim      *core.Simulator
	sessions *session.Store
	log      logging.Logger
}

var _ ImpactServiceServer = (*ImpactService)(nil)

// NewImpactService wires the service. log may be nil.
func NewImpactService(catalog *kb.Catalog, sim *core.Simulator, sessions *session.Store, log logging.Logger) *ImpactService {
	if log == nil {
		log = logging.Noop()
	}
	return &ImpactService{
		catalog:  catalog,
		sim:      sim,
		sessions: sessions,
		log:      log,
	}
}

func (s *ImpactService) ensureReady() error {
	if s == nil || s.catalog == nil || s.sim == nil || s.sessions == nil {
		return status.Error(codes.FailedPrecondition, "impact service is not configured")
	}
	return nil
}

// Simulate resolves the launch parameters, runs both descent phases and
// stores the result as a new session.
func (s *ImpactService) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var req types.SimulateRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, ToStatusError(err)
	}
	if err := ValidateSimulateRequest(req); err != nil {
		return nil, ToStatusError(err)
	}

	params, err := s.resolveEntry(req)
	if err != nil {
		return nil, ToStatusError(err)
	}

	ctx, span := startLaunchSpan(ctx, req.PresetID, params)
	defer span.End()

	result, err := s.sim.Simulate(ctx, params)
	if err != nil {
		return nil, ToStatusError(failSpan(span, err))
	}
	sess, err := s.sessions.Create(ctx, params, req.PresetID, result)
	if err != nil {
		return nil, ToStatusError(failSpan(span, err))
	}
	span.SetAttributes(
		attribute.String("impact.session_id", sess.ID),
		attribute.String("impact.outcome", string(result.Outcome.Class)),
	)

	loggerFrom(ctx, s.log).Info(ctx, "simulation stored",
		logging.String("session_id", sess.ID),
		logging.String("preset_id", req.PresetID),
		logging.String("outcome", string(result.Outcome.Class)),
		logging.Float64("energy_mt", result.Outcome.EnergyMegatons),
	)

	return encode(types.SimulateResponseFromSession(sess, req.IncludeTrajectories))
}

// resolveEntry turns a request into launch parameters. Any explicit body
// property on top of a preset drops the preset's calibration.
func (s *ImpactService) resolveEntry(req types.SimulateRequest) (model.EntryParameters, error) {
	angle := core.DefaultEntryAngleDeg
	if req.AngleDeg != nil {
		angle = *req.AngleDeg
	}

	var params model.EntryParameters
	if strings.TrimSpace(req.PresetID) != "" {
		preset, err := s.catalog.GetPreset(req.PresetID)
		if err != nil {
			return params, err
		}
		materialID := preset.MaterialID
		if req.MaterialID != "" {
			materialID = req.MaterialID
		}
		material, err := s.catalog.GetMaterial(materialID)
		if err != nil {
			return params, err
		}
		params = preset.EntryParameters(material, angle)
		if req.DiameterKm > 0 {
			params.InitialDiameterKm = req.DiameterKm
			params.Override = nil
		}
		if req.VelocityKmS > 0 {
			params.EntryVelocityKmS = req.VelocityKmS
			params.Override = nil
		}
		if req.MaterialID != "" && !strings.EqualFold(req.MaterialID, preset.MaterialID) {
			params.Override = nil
		}
	} else {
		materialID := req.MaterialID
		if materialID == "" {
			materialID = core.DefaultMaterial().ID
		}
		material, err := s.catalog.GetMaterial(materialID)
		if err != nil {
			return params, err
		}
		params = model.EntryParameters{
			InitialDiameterKm: req.DiameterKm,
			EntryVelocityKmS:  req.VelocityKmS,
			EntryAngleDeg:     angle,
			Material:          material,
		}
	}

	if req.Target != nil {
		target := *req.Target
		params.Target = &target
		params.AzimuthDeg = req.AzimuthDeg
	}
	return params, nil
}

// SampleAt returns interpolated states from a stored session.
func (s *ImpactService) SampleAt(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var req types.SampleRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, ToStatusError(err)
	}
	if err := ValidateSampleRequest(req); err != nil {
		return nil, ToStatusError(err)
	}

	phase := req.Phase
	if phase == "" {
		phase = core.PhaseLowAltitude
	}
	resp := types.SampleResponse{SessionID: req.SessionID, Phase: phase}

	if req.StepS == 0 {
		state, err := s.sessions.SampleAt(req.SessionID, phase, *req.TimeS)
		if err != nil {
			return nil, ToStatusError(err)
		}
		resp.States = []model.SimulationState{state}
		return encode(resp)
	}

	sess, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, ToStatusError(err)
	}
	traj, err := sess.Trajectory(phase)
	if err != nil {
		return nil, ToStatusError(err)
	}
	to := req.ToS
	if to == 0 {
		if last, ok := traj.Last(); ok {
			to = last.ElapsedTimeS
		}
	}
	if n := seriesLen(req.FromS, to, req.StepS); n > MaxSeriesSamples {
		return nil, ToStatusError(fmt.Errorf("%w: %d samples exceeds limit %d", ErrInvalidSampleRequest, n, MaxSeriesSamples))
	}
	resp.States = core.SampleSeries(traj, req.FromS, to, req.StepS)
	return encode(resp)
}

// GetSession returns a stored session without its trajectories.
func (s *ImpactService) GetSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	id, err := sessionID(in)
	if err != nil {
		return nil, ToStatusError(err)
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return encode(types.SessionResponseFromSession(sess))
}

// DeleteSession drops a stored session.
func (s *ImpactService) DeleteSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	id, err := sessionID(in)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if err := s.sessions.Delete(id); err != nil {
		return nil, ToStatusError(err)
	}
	loggerFrom(ctx, s.log).Info(ctx, "session deleted", logging.String("session_id", id))
	return encode(types.DeleteSessionResponse{SessionID: id, Deleted: true})
}

func sessionID(in *structpb.Struct) (string, error) {
	var req types.SessionRequest
	if err := types.FromStruct(in, &req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return "", fmt.Errorf("%w: session_id is required", ErrInvalidSessionRequest)
	}
	return req.SessionID, nil
}

// ListPresets lists catalog presets, optionally only the potentially
// hazardous ones.
func (s *ImpactService) ListPresets(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var req types.ListPresetsRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, ToStatusError(err)
	}

	presets := s.catalog.ListPresets()
	if req.HazardousOnly {
		filtered := presets[:0]
		for _, p := range presets {
			if p.PotentiallyHazardous {
				filtered = append(filtered, p)
			}
		}
		presets = filtered
	}
	return encode(types.ListPresetsResponse{Presets: presets})
}

// GetPreset returns one preset.
func (s *ImpactService) GetPreset(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var req types.PresetRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, ToStatusError(err)
	}
	if strings.TrimSpace(req.PresetID) == "" {
		return nil, status.Error(codes.InvalidArgument, "preset_id is required")
	}
	preset, err := s.catalog.GetPreset(req.PresetID)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return encode(preset)
}

// ListMaterials lists the material profiles.
func (s *ImpactService) ListMaterials(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var req types.ListMaterialsRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, ToStatusError(err)
	}
	return encode(types.ListMaterialsResponse{Materials: s.catalog.ListMaterials()})
}

// ComputeEnergy evaluates the consequence formulas for a body reaching the
// ground with its entry size and speed.
func (s *ImpactService) ComputeEnergy(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var req types.EnergyRequest
	if err := types.FromStruct(in, &req); err != nil {
		return nil, ToStatusError(err)
	}
	if err := ValidateEnergyRequest(req); err != nil {
		return nil, ToStatusError(err)
	}

	density := req.Density
	if density == 0 {
		materialID := req.MaterialID
		if materialID == "" {
			materialID = core.DefaultMaterial().ID
		}
		material, err := s.catalog.GetMaterial(materialID)
		if err != nil {
			return nil, ToStatusError(err)
		}
		density = material.Density
	}

	energy, c := core.ImpactConsequences(req.DiameterKm, req.VelocityKmS, density)
	return encode(types.EnergyResponse{
		Density:             density,
		Energy:              energy,
		CraterDiameterM:     c.CraterDiameterM,
		FireballRadiusM:     c.FireballRadiusM,
		TsunamiHeightM:      c.TsunamiHeightM,
		EarthquakeMagnitude: c.EarthquakeMagnitude,
	})
}

func encode(v any) (*structpb.Struct, error) {
	out, err := types.ToStruct(v)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return out, nil
}
