package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/config"
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/kb"
	"github.com/signalsfoundry/impact-simulator/model"
	"github.com/signalsfoundry/impact-simulator/timectrl"
)

var errUsage = errors.New("usage")

type options struct {
	configPath  string
	catalogPath string
	list        bool

	presetID    string
	diameterKm  float64
	velocityKmS float64
	angleDeg    float64
	materialID  string
	target      string
	azimuthDeg  float64

	replay      bool
	accelerated bool
	tick        time.Duration
	speed       float64
	jsonOut     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to an impact.yaml config file")
	flag.StringVar(&opts.catalogPath, "catalog", "", "Path to a JSON catalog of extra materials and presets")
	flag.BoolVar(&opts.list, "list", false, "List the preset catalogue and exit")
	flag.StringVar(&opts.presetID, "preset", "", "Preset id to launch (see -list)")
	flag.Float64Var(&opts.diameterKm, "diameter", 0, "Initial diameter in km (custom launch or preset override)")
	flag.Float64Var(&opts.velocityKmS, "velocity", 0, "Entry velocity in km/s (custom launch or preset override)")
	flag.Float64Var(&opts.angleDeg, "angle", core.DefaultEntryAngleDeg, "Entry angle in degrees above the horizon")
	flag.StringVar(&opts.materialID, "material", "", "Material id: stony, iron, metallic, carbonaceous, ice")
	flag.StringVar(&opts.target, "target", "", "Impact point as lat,lng in degrees; enables the ground track")
	flag.Float64Var(&opts.azimuthDeg, "azimuth", 0, "Direction of travel in degrees clockwise from north")
	flag.BoolVar(&opts.replay, "replay", true, "Replay the descent on the playback clock")
	flag.BoolVar(&opts.accelerated, "accelerated", true, "Replay in accelerated mode (vs real-time)")
	flag.DurationVar(&opts.tick, "tick", 0, "Playback tick interval (default from config)")
	flag.Float64Var(&opts.speed, "speed", 0, "Playback speed multiplier (default from config)")
	flag.BoolVar(&opts.jsonOut, "json", false, "Print the full result as JSON instead of a report")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "simulator: %v\n", err)
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out, errOut io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	log := logging.NewWithWriter(cfg.Log, errOut)

	catalog := kb.NewCatalog()
	if err := core.SeedCatalog(catalog); err != nil {
		return err
	}
	if path := firstNonEmpty(opts.catalogPath, cfg.CatalogPath); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		summary, err := core.LoadCatalog(catalog, f)
		f.Close()
		if err != nil {
			return err
		}
		log.Info(ctx, "loaded catalog", logging.String("path", path), logging.Int("presets", len(summary.PresetIDs)))
	}

	if opts.list {
		return printPresets(out, catalog.ListPresets())
	}

	params, err := resolveParams(catalog, opts)
	if err != nil {
		return err
	}

	sim := core.NewSimulator(cfg.Integrator, log)
	result, err := sim.Simulate(ctx, params)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if opts.replay {
		tick := opts.tick
		if tick <= 0 {
			tick = cfg.Playback.Tick
		}
		speed := opts.speed
		if speed <= 0 {
			speed = cfg.Playback.Speed
		}
		mode := timectrl.RealTime
		if opts.accelerated {
			mode = timectrl.Accelerated
		}
		for _, traj := range []model.Trajectory{result.Phase1, result.Phase2} {
			if err := replay(ctx, out, traj, timectrl.NewPlayback(tick, speed, mode)); err != nil {
				return err
			}
		}
	}

	printOutcome(out, params, result)
	return nil
}

func resolveParams(catalog *kb.Catalog, opts options) (model.EntryParameters, error) {
	var params model.EntryParameters
	switch {
	case opts.presetID != "":
		preset, err := catalog.GetPreset(opts.presetID)
		if err != nil {
			return params, err
		}
		material, err := catalog.GetMaterial(firstNonEmpty(opts.materialID, preset.MaterialID))
		if err != nil {
			return params, err
		}
		params = preset.EntryParameters(material, opts.angleDeg)
		if opts.diameterKm > 0 {
			params.InitialDiameterKm = opts.diameterKm
			params.Override = nil
		}
		if opts.velocityKmS > 0 {
			params.EntryVelocityKmS = opts.velocityKmS
			params.Override = nil
		}
		if opts.materialID != "" && !strings.EqualFold(opts.materialID, preset.MaterialID) {
			params.Override = nil
		}
	case opts.diameterKm > 0 && opts.velocityKmS > 0:
		material, err := catalog.GetMaterial(firstNonEmpty(opts.materialID, core.DefaultMaterial().ID))
		if err != nil {
			return params, err
		}
		params = model.EntryParameters{
			InitialDiameterKm: opts.diameterKm,
			EntryVelocityKmS:  opts.velocityKmS,
			EntryAngleDeg:     opts.angleDeg,
			Material:          material,
		}
	default:
		return params, fmt.Errorf("%w: -preset or both -diameter and -velocity are required", errUsage)
	}

	if opts.target != "" {
		target, err := parseTarget(opts.target)
		if err != nil {
			return params, err
		}
		params.Target = &target
		params.AzimuthDeg = opts.azimuthDeg
	}
	return params, nil
}

func parseTarget(s string) (model.GeoPoint, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return model.GeoPoint{}, fmt.Errorf("%w: -target must be lat,lng", errUsage)
	}
	latDeg, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return model.GeoPoint{}, fmt.Errorf("%w: bad latitude %q", errUsage, lat)
	}
	lngDeg, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return model.GeoPoint{}, fmt.Errorf("%w: bad longitude %q", errUsage, lng)
	}
	return model.GeoPoint{LatitudeDeg: latDeg, LongitudeDeg: lngDeg}, nil
}

// replay prints the trajectory as the playback clock sweeps over it.
func replay(ctx context.Context, out io.Writer, traj model.Trajectory, pb *timectrl.Playback) error {
	if traj.Len() == 0 {
		return nil
	}
	fmt.Fprintf(out, "== %s phase (%.1fs, %d snapshots)\n", traj.Phase, traj.Duration(), traj.Len())
	printState(out, core.SampleAt(traj, 0))
	pb.AddListener(func(elapsedS float64) {
		printState(out, core.SampleAt(traj, elapsedS))
	})
	<-pb.Start(ctx, traj.Duration())
	return ctx.Err()
}

func printState(out io.Writer, s model.SimulationState) {
	fmt.Fprintf(out, "t=%6.2fs alt=%7.2f km v=%6.2f km/s d=%9.5f km T=%7.0f C\n",
		s.ElapsedTimeS, s.AltitudeKm, s.VelocityKmS, s.DiameterKm, s.TemperatureC)
}

func printOutcome(out io.Writer, params model.EntryParameters, res *model.SimulationResult) {
	o := res.Outcome
	fmt.Fprintf(out, "\nLaunch: %.4g km %s at %.2f km/s, %.0f deg\n",
		params.InitialDiameterKm, params.Material.Name, params.EntryVelocityKmS, params.EntryAngleDeg)
	fmt.Fprintf(out, "Outcome: %s", o.Class)
	if res.Reconciled {
		fmt.Fprint(out, " (calibrated)")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Final: %.3f km at %.2f km/s\n", o.FinalDiameterKm, o.FinalVelocityKmS)
	fmt.Fprintf(out, "Energy: %.4g Mt TNT (%.4g J)\n", o.EnergyMegatons, o.Energy.Joules)
	printMetric(out, "Burst altitude", o.BurstAltitudeKm, "km")
	printMetric(out, "Crater diameter", o.CraterDiameterM, "m")
	printMetric(out, "Fireball radius", o.FireballRadiusM, "m")
	printMetric(out, "Tsunami height", o.TsunamiHeightM, "m")
	printMetric(out, "Earthquake magnitude", o.EarthquakeMagnitude, "")
	fmt.Fprintf(out, "Peak dynamic pressure: %.4g Pa\n", res.Summary.PeakDynamicPressurePa)
	if res.Track != nil {
		e := res.Track.EntryPoint.Position
		fmt.Fprintf(out, "Entry point: %.4f, %.4f (%.0f km uprange)\n", e.LatitudeDeg, e.LongitudeDeg, res.Track.EntryPoint.DownrangeKm)
	}
	for _, w := range o.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
}

func printMetric(out io.Writer, name string, v *float64, unit string) {
	if v == nil {
		return
	}
	fmt.Fprintf(out, "%s: %.4g %s\n", name, *v, unit)
}

func printPresets(out io.Writer, presets []model.AsteroidPreset) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDIAMETER_KM\tVELOCITY_KM_S\tMATERIAL\tPHA")
	for _, p := range presets {
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.2f\t%s\t%v\n", p.ID, p.Name, p.DiameterKm, p.VelocityKmS, p.MaterialID, p.PotentiallyHazardous)
	}
	return w.Flush()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
