package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/kb"
	"github.com/signalsfoundry/impact-simulator/model"
)

func baseOptions() options {
	return options{
		angleDeg:    core.DefaultEntryAngleDeg,
		replay:      true,
		accelerated: true,
		tick:        100 * time.Millisecond,
		speed:       1,
	}
}

// TestReplayCalibratedPreset runs a full launch with accelerated playback.
func TestReplayCalibratedPreset(t *testing.T) {
	opts := baseOptions()
	opts.presetID = "29075"

	var out, errOut bytes.Buffer
	if err := run(context.Background(), opts, &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"== high-altitude phase",
		"== low-altitude phase",
		"Outcome: Impact (calibrated)",
		"Final: 0.792 km at 17.97 km/s",
		"Crater diameter:",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	// One line per tick plus the opening snapshot: 101 for the 10 s phase.
	if n := strings.Count(got, "alt="); n < 101 {
		t.Fatalf("replay printed %d states, want at least 101", n)
	}
}

func TestCustomLaunchWithTrackNoReplay(t *testing.T) {
	opts := baseOptions()
	opts.replay = false
	opts.diameterKm = 0.5
	opts.velocityKmS = 16.7
	opts.target = "40.7, -74.0"
	opts.azimuthDeg = 45

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "alt=") {
		t.Fatalf("replay disabled but states printed:\n%s", got)
	}
	if !strings.Contains(got, "Stony Asteroid") || !strings.Contains(got, "Entry point:") {
		t.Fatalf("unexpected report:\n%s", got)
	}
}

func TestJSONOutput(t *testing.T) {
	opts := baseOptions()
	opts.presetID = "2020VV"
	opts.jsonOut = true

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	var res model.SimulationResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Outcome.Class != model.OutcomeAirburst {
		t.Fatalf("2020 VV outcome = %q, want Airburst", res.Outcome.Class)
	}
	if res.Phase1.Len() == 0 {
		t.Fatalf("expected trajectories in JSON output")
	}
}

func TestListPresets(t *testing.T) {
	opts := baseOptions()
	opts.list = true

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"ID", "29075", "433 Eros", "carbonaceous"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("listing missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunRequiresParameters(t *testing.T) {
	opts := baseOptions()
	opts.diameterKm = 1

	err := run(context.Background(), opts, &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, errUsage) {
		t.Fatalf("run error = %v, want usage error", err)
	}
}

func TestResolveParamsPresetOverrides(t *testing.T) {
	cat := kb.NewCatalog()
	if err := core.SeedCatalog(cat); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}

	opts := baseOptions()
	opts.presetID = "29075"
	params, err := resolveParams(cat, opts)
	if err != nil {
		t.Fatalf("resolveParams: %v", err)
	}
	if params.Override == nil || params.Material.ID != core.MaterialMetallic {
		t.Fatalf("preset params = %+v", params)
	}

	opts.materialID = core.MaterialIce
	params, err = resolveParams(cat, opts)
	if err != nil {
		t.Fatalf("resolveParams: %v", err)
	}
	if params.Override != nil || params.Material.ID != core.MaterialIce {
		t.Fatalf("material change should drop calibration, got %+v", params)
	}

	opts.presetID = "missing"
	if _, err := resolveParams(cat, opts); !errors.Is(err, kb.ErrPresetNotFound) {
		t.Fatalf("resolveParams(missing) = %v, want ErrPresetNotFound", err)
	}
}

func TestParseTarget(t *testing.T) {
	got, err := parseTarget(" -33.9, 151.2 ")
	if err != nil {
		t.Fatalf("parseTarget: %v", err)
	}
	if got.LatitudeDeg != -33.9 || got.LongitudeDeg != 151.2 {
		t.Fatalf("parseTarget = %+v", got)
	}
	for _, bad := range []string{"", "10", "x,1", "1,y"} {
		if _, err := parseTarget(bad); !errors.Is(err, errUsage) {
			t.Fatalf("parseTarget(%q) = %v, want usage error", bad, err)
		}
	}
}
