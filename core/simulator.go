package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/model"
)

// SimulationRecorder receives per-run statistics. It is implemented by the
// Prometheus collector in internal/observability.
type SimulationRecorder interface {
	ObserveSimulation(outcome string, steps int, runaway bool, elapsed time.Duration)
}

// Simulator runs the two descent phases and classifies the outcome.
// It is safe for concurrent use; each call owns its trajectories.
type Simulator struct {
	integrator *Integrator
	phase1     Phase
	phase2     Phase
	log        logging.Logger
	recorder   SimulationRecorder
	tracer     trace.Tracer
	now        func() time.Time
}

// SimulatorOption customizes a Simulator.
type SimulatorOption func(*Simulator)

// WithPhases replaces the default phase bounds.
func WithPhases(high, low Phase) SimulatorOption {
	return func(s *Simulator) {
		s.phase1 = high
		s.phase2 = low
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r SimulationRecorder) SimulatorOption {
	return func(s *Simulator) { s.recorder = r }
}

// WithClock overrides the clock used for ground-track epochs and timing.
func WithClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSimulator builds a simulator from integrator constants. A nil logger
// discards output.
func NewSimulator(cfg IntegratorConfig, log logging.Logger, opts ...SimulatorOption) *Simulator {
	if log == nil {
		log = logging.Noop()
	}
	s := &Simulator{
		integrator: NewIntegrator(cfg),
		phase1:     HighAltitudePhase(),
		phase2:     LowAltitudePhase(),
		log:        log,
		tracer:     otel.Tracer("impact-simulator/core"),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Integrator exposes the underlying step integrator.
func (s *Simulator) Integrator() *Integrator { return s.integrator }

// Simulate validates params and runs the full descent. Invalid input
// returns an error wrapping ErrInvalidInput; every physically odd but
// valid input produces a result.
func (s *Simulator) Simulate(ctx context.Context, params model.EntryParameters) (*model.SimulationResult, error) {
	ctx, span := s.tracer.Start(ctx, "core.Simulate", trace.WithAttributes(
		attribute.Float64("impact.diameter_km", params.InitialDiameterKm),
		attribute.Float64("impact.velocity_km_s", params.EntryVelocityKmS),
		attribute.Float64("impact.angle_deg", params.EntryAngleDeg),
		attribute.String("impact.material", params.Material.ID),
	))
	defer span.End()

	if err := ValidateEntry(params); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	started := s.now()
	log := s.log.With(
		logging.String("material", params.Material.ID),
		logging.Float64("diameter_km", params.InitialDiameterKm),
		logging.Float64("velocity_km_s", params.EntryVelocityKmS),
	)

	initial := model.SimulationState{
		VelocityKmS:  params.EntryVelocityKmS,
		DiameterKm:   params.InitialDiameterKm,
		TemperatureC: params.Material.InitialTemperature,
	}

	run1 := s.integrator.Integrate(s.phase1, params.Material, params.EntryAngleDeg, initial)
	log.Debug(ctx, "phase complete",
		logging.String("phase", s.phase1.Name),
		logging.String("reason", string(run1.Reason)),
		logging.Int("steps", run1.Steps),
	)

	run2 := s.integrator.Integrate(s.phase2, params.Material, params.EntryAngleDeg, run1.Final())
	log.Debug(ctx, "phase complete",
		logging.String("phase", s.phase2.Name),
		logging.String("reason", string(run2.Reason)),
		logging.Int("steps", run2.Steps),
	)

	phase1, phase2 := run1.Trajectory, run2.Trajectory
	reconciled := false
	if params.Override != nil && run2.Reason != TerminatedDegenerate {
		phase1, phase2 = Reconcile(phase1, phase2, params)
		reconciled = true
	}

	outcome := Classify(phase1, phase2, params.Material, run2.Reason)
	if outcome.Runaway {
		last, _ := phase2.Last()
		log.Warn(ctx, "descent hit runaway bound",
			logging.Float64("altitude_km", last.AltitudeKm),
			logging.Float64("velocity_km_s", last.VelocityKmS),
		)
	}

	result := &model.SimulationResult{
		Phase1:     phase1,
		Phase2:     phase2,
		Outcome:    outcome,
		Reconciled: reconciled,
		Summary:    Summarize(phase1, phase2, params.InitialDiameterKm),
	}
	if params.Target != nil {
		result.Track = ComputeGroundTrack(phase1, phase2, *params.Target, params.AzimuthDeg, params.EntryAngleDeg, started)
	}

	steps := run1.Steps + run2.Steps
	if s.recorder != nil {
		s.recorder.ObserveSimulation(string(outcome.Class), steps, outcome.Runaway, s.now().Sub(started))
	}
	span.SetAttributes(
		attribute.String("impact.outcome", string(outcome.Class)),
		attribute.Int("impact.steps", steps),
	)
	return result, nil
}

// ValidateEntry checks launch parameters for values the model cannot run.
func ValidateEntry(p model.EntryParameters) error {
	switch {
	case !positiveFinite(p.InitialDiameterKm):
		return fmt.Errorf("%w: initial diameter must be positive, got %v", ErrInvalidInput, p.InitialDiameterKm)
	case !positiveFinite(p.EntryVelocityKmS):
		return fmt.Errorf("%w: entry velocity must be positive, got %v", ErrInvalidInput, p.EntryVelocityKmS)
	case math.IsNaN(p.EntryAngleDeg) || p.EntryAngleDeg < 0 || p.EntryAngleDeg > 90:
		return fmt.Errorf("%w: entry angle must be within [0, 90] degrees, got %v", ErrInvalidInput, p.EntryAngleDeg)
	}
	if err := p.Material.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if o := p.Override; o != nil {
		if o.TargetImpactVelocityKmS < 0 || math.IsNaN(o.TargetImpactVelocityKmS) {
			return fmt.Errorf("%w: target impact velocity must be non-negative", ErrInvalidInput)
		}
		if o.TargetFinalDiameterKm < 0 || math.IsNaN(o.TargetFinalDiameterKm) {
			return fmt.Errorf("%w: target final diameter must be non-negative", ErrInvalidInput)
		}
	}
	if t := p.Target; t != nil {
		if math.Abs(t.LatitudeDeg) > 90 || math.Abs(t.LongitudeDeg) > 180 {
			return fmt.Errorf("%w: target %v,%v out of range", ErrInvalidInput, t.LatitudeDeg, t.LongitudeDeg)
		}
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
