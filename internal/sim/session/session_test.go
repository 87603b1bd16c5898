package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type gaugeRecorder struct {
	mu   sync.Mutex
	last int
}

func (g *gaugeRecorder) SetActiveSessions(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = n
}

func (g *gaugeRecorder) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.October, 4, 12, 0, 0, 0, time.UTC)}
}

func testResult() *model.SimulationResult {
	return &model.SimulationResult{
		Phase1: model.Trajectory{Phase: core.PhaseHighAltitude, States: []model.SimulationState{
			{ElapsedTimeS: 0, AltitudeKm: 100, VelocityKmS: 17},
			{ElapsedTimeS: 10, AltitudeKm: 35, VelocityKmS: 17},
		}},
		Phase2: model.Trajectory{Phase: core.PhaseLowAltitude, States: []model.SimulationState{
			{ElapsedTimeS: 0, AltitudeKm: 35, VelocityKmS: 17},
			{ElapsedTimeS: 2, AltitudeKm: 0, VelocityKmS: 16},
		}},
	}
}

func TestCreateGetDelete(t *testing.T) {
	rec := &gaugeRecorder{}
	store := NewStore(logging.Noop(), WithMetricsRecorder(rec))
	ctx := context.Background()

	sess, err := store.Create(ctx, model.EntryParameters{InitialDiameterKm: 0.5}, "433", testResult())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if sess.ID == "" {
		t.Fatalf("expected generated id")
	}
	if rec.value() != 1 {
		t.Fatalf("active sessions = %d, want 1", rec.value())
	}

	got, err := store.Get(sess.ID)
	if err != nil || got != sess {
		t.Fatalf("Get = %v, %v", got, err)
	}

	if err := store.Delete(sess.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := store.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get after delete err = %v, want ErrSessionNotFound", err)
	}
	if err := store.Delete(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second Delete err = %v, want ErrSessionNotFound", err)
	}
	if rec.value() != 0 {
		t.Fatalf("active sessions = %d, want 0", rec.value())
	}
}

func TestCreateNilResult(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.Create(context.Background(), model.EntryParameters{}, "", nil); !errors.Is(err, ErrNilResult) {
		t.Fatalf("err = %v, want ErrNilResult", err)
	}
}

func TestSampleAt(t *testing.T) {
	store := NewStore(logging.Noop())
	sess, err := store.Create(context.Background(), model.EntryParameters{}, "", testResult())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	tests := []struct {
		phase   string
		t       float64
		wantAlt float64
	}{
		{phase: core.PhaseHighAltitude, t: 5, wantAlt: 67.5},
		{phase: core.PhaseLowAltitude, t: 1, wantAlt: 17.5},
		{phase: "", t: 99, wantAlt: 0},
		{phase: "1", t: -1, wantAlt: 100},
	}
	for _, tt := range tests {
		got, err := store.SampleAt(sess.ID, tt.phase, tt.t)
		if err != nil {
			t.Fatalf("SampleAt(%q, %v) error: %v", tt.phase, tt.t, err)
		}
		if got.AltitudeKm != tt.wantAlt {
			t.Fatalf("SampleAt(%q, %v) altitude = %v, want %v", tt.phase, tt.t, got.AltitudeKm, tt.wantAlt)
		}
	}

	if _, err := store.SampleAt(sess.ID, "cruise", 0); !errors.Is(err, ErrUnknownPhase) {
		t.Fatalf("err = %v, want ErrUnknownPhase", err)
	}
	if _, err := store.SampleAt("missing", "", 0); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestMaxSessionsEvictsOldest(t *testing.T) {
	clock := newClock()
	store := NewStore(logging.Noop(), WithMaxSessions(2), WithClock(clock.Now))
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		sess, err := store.Create(ctx, model.EntryParameters{}, "", testResult())
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		ids = append(ids, sess.ID)
		clock.Advance(time.Second)
	}

	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}
	if _, err := store.Get(ids[0]); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("oldest session should be evicted, err = %v", err)
	}
	list := store.List()
	if len(list) != 2 || list[0].ID != ids[1] || list[1].ID != ids[2] {
		t.Fatalf("List order wrong: %v", list)
	}
}

func TestTTLExpiry(t *testing.T) {
	clock := newClock()
	rec := &gaugeRecorder{}
	store := NewStore(logging.Noop(), WithTTL(time.Minute), WithClock(clock.Now), WithMetricsRecorder(rec))
	ctx := context.Background()

	sess, err := store.Create(ctx, model.EntryParameters{}, "", testResult())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	clock.Advance(2 * time.Minute)

	if _, err := store.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired session err = %v, want ErrSessionNotFound", err)
	}
	if len(store.List()) != 0 {
		t.Fatalf("List should hide expired sessions")
	}
	if removed := store.Prune(ctx); removed != 1 {
		t.Fatalf("Prune removed %d, want 1", removed)
	}
	if rec.value() != 0 || store.Len() != 0 {
		t.Fatalf("after prune gauge=%d len=%d", rec.value(), store.Len())
	}
}

func TestClear(t *testing.T) {
	rec := &gaugeRecorder{}
	store := NewStore(logging.Noop(), WithMetricsRecorder(rec))
	for i := 0; i < 3; i++ {
		if _, err := store.Create(context.Background(), model.EntryParameters{}, "", testResult()); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	store.Clear()
	if store.Len() != 0 || rec.value() != 0 {
		t.Fatalf("Clear left len=%d gauge=%d", store.Len(), rec.value())
	}
}

func TestConcurrentSessions(t *testing.T) {
	store := NewStore(logging.Noop())
	sim := core.NewSimulator(core.DefaultIntegratorConfig(), logging.Noop())
	params := model.EntryParameters{
		InitialDiameterKm: 0.3,
		EntryVelocityKmS:  20,
		EntryAngleDeg:     core.DefaultEntryAngleDeg,
		Material:          core.DefaultMaterial(),
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := sim.Simulate(context.Background(), params)
			if err != nil {
				t.Errorf("Simulate error: %v", err)
				return
			}
			sess, err := store.Create(context.Background(), params, "", res)
			if err != nil {
				t.Errorf("Create error: %v", err)
				return
			}
			if _, err := store.SampleAt(sess.ID, core.PhaseLowAltitude, 1.5); err != nil {
				t.Errorf("SampleAt error: %v", err)
			}
		}()
	}
	wg.Wait()

	if store.Len() != 8 {
		t.Fatalf("Len = %d, want 8", store.Len())
	}
}
