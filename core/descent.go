package core

import (
	"math"

	"github.com/signalsfoundry/impact-simulator/model"
)

// TerminationReason records why a phase stopped integrating.
type TerminationReason string

const (
	TerminatedBudget     TerminationReason = "budget"
	TerminatedGround     TerminationReason = "ground"
	TerminatedBurnup     TerminationReason = "burnup"
	TerminatedStopped    TerminationReason = "stopped"
	TerminatedRunaway    TerminationReason = "runaway"
	TerminatedDegenerate TerminationReason = "degenerate"
)

// Phase parameterizes one integration pass. Both descent phases share
// the same step logic and differ only in these bounds.
type Phase struct {
	Name            string
	StartAltitudeKm float64
	// FloorAltitudeKm clamps altitude from below.
	FloorAltitudeKm float64
	// StopAtFloor ends the phase once the floor is reached.
	StopAtFloor bool
	// TimeBudgetS ends the phase after this much simulated time. Zero
	// means no budget.
	TimeBudgetS float64
	// MaxDurationS is the runaway bound. Zero means no bound.
	MaxDurationS float64
}

const (
	PhaseHighAltitude = "high-altitude"
	PhaseLowAltitude  = "low-altitude"

	highAltitudeStartKm = 100.0
	lowAltitudeStartKm  = 35.0
	highAltitudeBudgetS = 10.0
	lowAltitudeMaxS     = 100.0
)

// HighAltitudePhase is the fixed-budget entry phase: 10 s of descent from
// 100 km that never drops below the 35 km hand-off altitude.
func HighAltitudePhase() Phase {
	return Phase{
		Name:            PhaseHighAltitude,
		StartAltitudeKm: highAltitudeStartKm,
		FloorAltitudeKm: lowAltitudeStartKm,
		TimeBudgetS:     highAltitudeBudgetS,
	}
}

// LowAltitudePhase runs from 35 km until ground, burn-up or the 100 s
// runaway bound.
func LowAltitudePhase() Phase {
	return Phase{
		Name:            PhaseLowAltitude,
		StartAltitudeKm: lowAltitudeStartKm,
		FloorAltitudeKm: 0,
		StopAtFloor:     true,
		MaxDurationS:    lowAltitudeMaxS,
	}
}

// IntegratorConfig holds the tunable constants of the step update.
type IntegratorConfig struct {
	TimeStepS          float64
	Gravity            float64
	DragCoefficient    float64
	AblationMultiplier float64
}

// DefaultIntegratorConfig returns the calibrated constants.
func DefaultIntegratorConfig() IntegratorConfig {
	return IntegratorConfig{
		TimeStepS:          0.1,
		Gravity:            Gravity,
		DragCoefficient:    DragCoefficient,
		AblationMultiplier: 0.5,
	}
}

// Integrator advances altitude, velocity and diameter with a fixed-step
// explicit update. It holds no per-run state and is safe for concurrent use.
type Integrator struct {
	cfg IntegratorConfig
}

// NewIntegrator builds an integrator. A non-positive time step falls back
// to the default.
func NewIntegrator(cfg IntegratorConfig) *Integrator {
	if cfg.TimeStepS <= 0 {
		cfg.TimeStepS = DefaultIntegratorConfig().TimeStepS
	}
	return &Integrator{cfg: cfg}
}

// Config returns the integrator constants.
func (in *Integrator) Config() IntegratorConfig { return in.cfg }

// PhaseRun is the output of one Integrate call.
type PhaseRun struct {
	Trajectory model.Trajectory
	Reason     TerminationReason
	Steps      int
}

// Final returns the last snapshot of the run.
func (r PhaseRun) Final() model.SimulationState {
	s, _ := r.Trajectory.Last()
	return s
}

// SizeScalingFactor is the piecewise ablation resistance in asteroid
// radius (km): cubic inverse above 1 km, quadratic inverse in (0.5, 1],
// linear inverse below.
func SizeScalingFactor(radiusKm float64) float64 {
	switch {
	case radiusKm <= 0:
		return 0
	case radiusKm > 1:
		return 1 / (radiusKm * radiusKm * radiusKm)
	case radiusKm > 0.5:
		return 1 / (radiusKm * radiusKm)
	default:
		return 1 / radiusKm
	}
}

// AblationKm returns the diameter lost in one step of dtS seconds.
func (in *Integrator) AblationKm(coefficient, dynamicPressure, diameterKm, density, dtS float64) float64 {
	if density <= 0 {
		return 0
	}
	densityScaling := 2000 / density
	return coefficient * dynamicPressure * in.cfg.AblationMultiplier *
		SizeScalingFactor(diameterKm/2) * densityScaling * dtS / 1e6
}

// Step applies one update to s. sinAngle is the sine of the entry angle
// and floorKm the lowest altitude the phase allows. The returned snapshot
// carries the atmospheric density the step was evaluated at.
func (in *Integrator) Step(s model.SimulationState, m model.MaterialProfile, sinAngle, floorKm float64) model.SimulationState {
	dt := in.cfg.TimeStepS
	rho := AtmosphereDensity(s.AltitudeKm)

	radiusM := s.DiameterKm * 1000 / 2
	area := math.Pi * radiusM * radiusM
	mass := MassKg(s.DiameterKm, m.Density)

	v := s.VelocityKmS * 1000
	dragForce := 0.5 * rho * v * v * in.cfg.DragCoefficient * area
	var dragDecel float64
	if mass > 0 {
		dragDecel = dragForce / mass * m.VelocityChangeCoefficient
	}
	gravity := in.cfg.Gravity * sinAngle

	v = math.Max(0, v-dragDecel*dt+gravity*dt)
	alt := math.Max(floorKm, s.AltitudeKm-(v*sinAngle)*dt/1000)

	q := DynamicPressure(rho, v)
	d := math.Max(0, s.DiameterKm-in.AblationKm(m.AblationCoefficient, q, s.DiameterKm, m.Density, dt))

	return model.SimulationState{
		ElapsedTimeS:      s.ElapsedTimeS + dt,
		AltitudeKm:        alt,
		VelocityKmS:       v / 1000,
		DiameterKm:        d,
		TemperatureC:      s.TemperatureC + m.BaseHeatingRate*(rho/SeaLevelDensity)*dt,
		AtmosphereDensity: rho,
	}
}

// Integrate runs phase from initial. The initial snapshot's altitude and
// elapsed time are replaced by the phase start; diameter, velocity and
// temperature carry over. The trajectory always begins with that
// starting snapshot.
func (in *Integrator) Integrate(phase Phase, m model.MaterialProfile, angleDeg float64, initial model.SimulationState) PhaseRun {
	dt := in.cfg.TimeStepS
	sinAngle := math.Sin(degToRad(angleDeg))

	budgetSteps := stepsFor(phase.TimeBudgetS, dt)
	maxSteps := stepsFor(phase.MaxDurationS, dt)
	if budgetSteps == 0 && maxSteps == 0 {
		maxSteps = stepsFor(lowAltitudeMaxS, dt)
	}

	cur := initial
	cur.ElapsedTimeS = 0
	cur.AltitudeKm = math.Max(phase.FloorAltitudeKm, phase.StartAltitudeKm)
	cur.AtmosphereDensity = AtmosphereDensity(cur.AltitudeKm)

	traj := model.Trajectory{
		Phase:  phase.Name,
		States: make([]model.SimulationState, 0, expectedSteps(budgetSteps, maxSteps)+1),
	}
	traj.States = append(traj.States, cur)

	if cur.DiameterKm <= 0 || cur.VelocityKmS <= 0 {
		return PhaseRun{Trajectory: traj, Reason: TerminatedDegenerate}
	}

	steps := 0
	for {
		switch {
		case cur.DiameterKm <= 0:
			return PhaseRun{Trajectory: traj, Reason: TerminatedBurnup, Steps: steps}
		case cur.VelocityKmS <= 0:
			return PhaseRun{Trajectory: traj, Reason: TerminatedStopped, Steps: steps}
		case phase.StopAtFloor && cur.AltitudeKm <= phase.FloorAltitudeKm:
			return PhaseRun{Trajectory: traj, Reason: TerminatedGround, Steps: steps}
		case budgetSteps > 0 && steps >= budgetSteps:
			return PhaseRun{Trajectory: traj, Reason: TerminatedBudget, Steps: steps}
		case maxSteps > 0 && steps >= maxSteps:
			return PhaseRun{Trajectory: traj, Reason: TerminatedRunaway, Steps: steps}
		}

		cur = in.Step(cur, m, sinAngle, phase.FloorAltitudeKm)
		steps++
		// Derive time from the step count so long phases do not drift.
		cur.ElapsedTimeS = float64(steps) * dt
		traj.States = append(traj.States, cur)
	}
}

func stepsFor(durationS, dt float64) int {
	if durationS <= 0 {
		return 0
	}
	return int(math.Round(durationS / dt))
}

func expectedSteps(budget, maxSteps int) int {
	if budget > 0 {
		return budget
	}
	if maxSteps > 256 {
		return 256
	}
	return maxSteps
}
