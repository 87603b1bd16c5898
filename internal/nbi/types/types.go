package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/signalsfoundry/impact-simulator/internal/sim/session"
	"github.com/signalsfoundry/impact-simulator/model"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformed indicates a wire message could not be decoded into the
// expected request shape.
var ErrMalformed = errors.New("malformed message")

//
// Request and response shapes carried inside google.protobuf.Struct.
//
// The ImpactService has no generated messages; every RPC takes and returns
// a Struct whose fields follow the JSON tags below.
//

// SimulateRequest launches one simulation. Either PresetID or both
// DiameterKm and VelocityKmS must be set. Explicit size, speed or material
// on top of a preset replace the preset's values and drop its calibration.
type SimulateRequest struct {
	PresetID    string          `json:"preset_id,omitempty"`
	DiameterKm  float64         `json:"diameter_km,omitempty"`
	VelocityKmS float64         `json:"velocity_km_s,omitempty"`
	AngleDeg    *float64        `json:"angle_deg,omitempty"`
	MaterialID  string          `json:"material_id,omitempty"`
	Target      *model.GeoPoint `json:"target,omitempty"`
	AzimuthDeg  float64         `json:"azimuth_deg,omitempty"`

	IncludeTrajectories bool `json:"include_trajectories,omitempty"`
}

// SimulateResponse describes a finished launch and the session that holds
// its trajectories.
type SimulateResponse struct {
	SessionID       string                  `json:"session_id"`
	PresetID        string                  `json:"preset_id,omitempty"`
	Outcome         model.OutcomeResult     `json:"outcome"`
	Reconciled      bool                    `json:"reconciled"`
	Summary         model.TrajectorySummary `json:"summary"`
	Phase1DurationS float64                 `json:"phase1_duration_s"`
	Phase2DurationS float64                 `json:"phase2_duration_s"`
	Phase1          *model.Trajectory       `json:"phase1,omitempty"`
	Phase2          *model.Trajectory       `json:"phase2,omitempty"`
	Track           *model.GroundTrack      `json:"ground_track,omitempty"`
}

// SampleRequest queries a session trajectory. With StepS > 0 it returns a
// series over [FromS, ToS]; a zero ToS means the end of the phase.
// Otherwise it returns the single state at TimeS.
type SampleRequest struct {
	SessionID string   `json:"session_id"`
	Phase     string   `json:"phase,omitempty"`
	TimeS     *float64 `json:"t,omitempty"`
	FromS     float64  `json:"from_s,omitempty"`
	ToS       float64  `json:"to_s,omitempty"`
	StepS     float64  `json:"step_s,omitempty"`
}

// SampleResponse carries the sampled states in time order.
type SampleResponse struct {
	SessionID string                  `json:"session_id"`
	Phase     string                  `json:"phase"`
	States    []model.SimulationState `json:"states"`
}

// SessionRequest addresses one session.
type SessionRequest struct {
	SessionID string `json:"session_id"`
}

// SessionResponse is the stored view of a session without trajectories.
type SessionResponse struct {
	SessionID       string                  `json:"session_id"`
	PresetID        string                  `json:"preset_id,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	Params          model.EntryParameters   `json:"params"`
	Outcome         model.OutcomeResult     `json:"outcome"`
	Summary         model.TrajectorySummary `json:"summary"`
	Phase1DurationS float64                 `json:"phase1_duration_s"`
	Phase2DurationS float64                 `json:"phase2_duration_s"`
	Phase1Snapshots int                     `json:"phase1_snapshots"`
	Phase2Snapshots int                     `json:"phase2_snapshots"`
}

// DeleteSessionResponse acknowledges a deletion.
type DeleteSessionResponse struct {
	SessionID string `json:"session_id"`
	Deleted   bool   `json:"deleted"`
}

// PresetRequest addresses one catalog preset.
type PresetRequest struct {
	PresetID string `json:"preset_id"`
}

// ListPresetsRequest filters the preset listing.
type ListPresetsRequest struct {
	HazardousOnly bool `json:"hazardous_only,omitempty"`
}

// ListPresetsResponse lists presets sorted by name.
type ListPresetsResponse struct {
	Presets []model.AsteroidPreset `json:"presets"`
}

// ListMaterialsRequest takes no fields.
type ListMaterialsRequest struct{}

// ListMaterialsResponse lists material profiles sorted by id.
type ListMaterialsResponse struct {
	Materials []model.MaterialProfile `json:"materials"`
}

// EnergyRequest evaluates the consequence formulas for a body striking
// the ground unchanged. Density, when set, takes precedence over the
// material's.
type EnergyRequest struct {
	DiameterKm  float64 `json:"diameter_km"`
	VelocityKmS float64 `json:"velocity_km_s"`
	MaterialID  string  `json:"material_id,omitempty"`
	Density     float64 `json:"density,omitempty"`
}

// EnergyResponse carries energy and the consequence metrics; undefined
// metrics are omitted.
type EnergyResponse struct {
	Density             float64               `json:"density"`
	Energy              model.EnergyBreakdown `json:"energy"`
	CraterDiameterM     *float64              `json:"crater_diameter_m,omitempty"`
	FireballRadiusM     *float64              `json:"fireball_radius_m,omitempty"`
	TsunamiHeightM      *float64              `json:"tsunami_height_m,omitempty"`
	EarthquakeMagnitude *float64              `json:"earthquake_magnitude,omitempty"`
}

// ToStruct encodes v through its JSON form into a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return out, nil
}

// FromStruct decodes s into v. Unknown fields are rejected; a nil Struct
// decodes as an empty object.
func FromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %T: %v", ErrMalformed, v, err)
	}
	return nil
}

// SimulateResponseFromSession builds the launch response. Trajectories
// are only copied in when requested.
func SimulateResponseFromSession(sess *session.Session, includeTrajectories bool) SimulateResponse {
	res := sess.Result
	out := SimulateResponse{
		SessionID:       sess.ID,
		PresetID:        sess.PresetID,
		Outcome:         res.Outcome,
		Reconciled:      res.Reconciled,
		Summary:         res.Summary,
		Phase1DurationS: res.Phase1.Duration(),
		Phase2DurationS: res.Phase2.Duration(),
		Track:           res.Track,
	}
	if includeTrajectories {
		p1, p2 := res.Phase1, res.Phase2
		out.Phase1 = &p1
		out.Phase2 = &p2
	}
	return out
}

// SessionResponseFromSession builds the stored session view.
func SessionResponseFromSession(sess *session.Session) SessionResponse {
	res := sess.Result
	return SessionResponse{
		SessionID:       sess.ID,
		PresetID:        sess.PresetID,
		CreatedAt:       sess.CreatedAt,
		Params:          sess.Params,
		Outcome:         res.Outcome,
		Summary:         res.Summary,
		Phase1DurationS: res.Phase1.Duration(),
		Phase2DurationS: res.Phase2.Duration(),
		Phase1Snapshots: res.Phase1.Len(),
		Phase2Snapshots: res.Phase2.Len(),
	}
}
