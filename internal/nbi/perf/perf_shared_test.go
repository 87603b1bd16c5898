//go:build perf || perf_large

package perf

import (
	"context"
	"testing"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/nbi"
	"github.com/signalsfoundry/impact-simulator/internal/nbi/types"
	"github.com/signalsfoundry/impact-simulator/internal/sim/session"
	"github.com/signalsfoundry/impact-simulator/kb"
)

type perfConfig struct {
	Launches       int
	SampleStepS    float64
	MaxSessions    int
	IncludeHistory bool
}

func newService(b *testing.B, cfg perfConfig) *nbi.ImpactService {
	b.Helper()
	cat := kb.NewCatalog()
	if err := core.SeedCatalog(cat); err != nil {
		b.Fatalf("SeedCatalog: %v", err)
	}
	sim := core.NewSimulator(core.DefaultIntegratorConfig(), logging.Noop())
	store := session.NewStore(logging.Noop(), session.WithMaxSessions(cfg.MaxSessions))
	return nbi.NewImpactService(cat, sim, store, logging.Noop())
}

func presetIDs() []string {
	presets := core.DefaultPresets()
	ids := make([]string, len(presets))
	for i, p := range presets {
		ids[i] = p.ID
	}
	return ids
}

func launch(b *testing.B, svc *nbi.ImpactService, req types.SimulateRequest) types.SimulateResponse {
	b.Helper()
	in, err := types.ToStruct(req)
	if err != nil {
		b.Fatalf("ToStruct: %v", err)
	}
	out, err := svc.Simulate(context.Background(), in)
	if err != nil {
		b.Fatalf("Simulate(%s): %v", req.PresetID, err)
	}
	var resp types.SimulateResponse
	if err := types.FromStruct(out, &resp); err != nil {
		b.Fatalf("FromStruct: %v", err)
	}
	return resp
}

func benchmarkLaunches(b *testing.B, cfg perfConfig) {
	ids := presetIDs()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		svc := newService(b, cfg)

		b.ResetTimer()
		for j := 0; j < cfg.Launches; j++ {
			launch(b, svc, types.SimulateRequest{
				PresetID:            ids[j%len(ids)],
				IncludeTrajectories: cfg.IncludeHistory,
			})
		}
		b.StopTimer()
	}
}

func benchmarkPlayback(b *testing.B, cfg perfConfig) {
	ids := presetIDs()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		svc := newService(b, cfg)
		sessionIDs := make([]string, 0, cfg.Launches)
		for j := 0; j < cfg.Launches; j++ {
			sessionIDs = append(sessionIDs, launch(b, svc, types.SimulateRequest{PresetID: ids[j%len(ids)]}).SessionID)
		}

		b.ResetTimer()
		for _, id := range sessionIDs {
			for _, phase := range []string{core.PhaseHighAltitude, core.PhaseLowAltitude} {
				in, err := types.ToStruct(types.SampleRequest{SessionID: id, Phase: phase, StepS: cfg.SampleStepS})
				if err != nil {
					b.Fatalf("ToStruct: %v", err)
				}
				if _, err := svc.SampleAt(context.Background(), in); err != nil {
					b.Fatalf("SampleAt(%s, %s): %v", id, phase, err)
				}
			}
		}
		b.StopTimer()
	}
}
