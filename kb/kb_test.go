package kb

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/signalsfoundry/impact-simulator/model"
)

func stony() model.MaterialProfile {
	return model.MaterialProfile{
		ID:                        "stony",
		Name:                      "Stony Asteroid",
		Density:                   3000,
		AblationCoefficient:       1.5e-5,
		BaseHeatingRate:           2400,
		InitialTemperature:        -50,
		VelocityChangeCoefficient: 1,
	}
}

func preset(id, name string) model.AsteroidPreset {
	return model.AsteroidPreset{
		ID:          id,
		Name:        name,
		DiameterKm:  0.5,
		VelocityKmS: 17,
		MaterialID:  "stony",
	}
}

func TestAddAndGetMaterial(t *testing.T) {
	store := NewCatalog()
	if err := store.AddMaterial(stony()); err != nil {
		t.Fatalf("AddMaterial error: %v", err)
	}
	got, err := store.GetMaterial("STONY")
	if err != nil {
		t.Fatalf("GetMaterial error: %v", err)
	}
	if got.Density != 3000 {
		t.Fatalf("GetMaterial density=%v, want 3000", got.Density)
	}
}

func TestAddMaterialErrors(t *testing.T) {
	tests := []struct {
		name string
		m    model.MaterialProfile
		want error
	}{
		{name: "empty id", m: model.MaterialProfile{Density: 1}, want: ErrInvalidEntry},
		{name: "zero density", m: model.MaterialProfile{ID: "x"}, want: ErrInvalidEntry},
		{name: "duplicate", m: stony(), want: ErrMaterialExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewCatalog()
			if err := store.AddMaterial(stony()); err != nil {
				t.Fatalf("seed AddMaterial error: %v", err)
			}
			if err := store.AddMaterial(tt.m); !errors.Is(err, tt.want) {
				t.Fatalf("AddMaterial err=%v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	store := NewCatalog()
	if _, err := store.GetMaterial("nope"); !errors.Is(err, ErrMaterialNotFound) {
		t.Fatalf("GetMaterial err=%v, want ErrMaterialNotFound", err)
	}
	if _, err := store.GetPreset("nope"); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("GetPreset err=%v, want ErrPresetNotFound", err)
	}
	if err := store.RemovePreset("nope"); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("RemovePreset err=%v, want ErrPresetNotFound", err)
	}
}

func TestAddPresetMaterialValidation(t *testing.T) {
	store := NewCatalog()
	p := preset("433", "433 Eros")
	if err := store.AddPreset(p); !errors.Is(err, ErrMaterialNotFound) {
		t.Fatalf("expected ErrMaterialNotFound when material missing, got %v", err)
	}

	if err := store.AddMaterial(stony()); err != nil {
		t.Fatalf("AddMaterial error: %v", err)
	}
	if err := store.AddPreset(p); err != nil {
		t.Fatalf("AddPreset error: %v", err)
	}
	if err := store.AddPreset(p); !errors.Is(err, ErrPresetExists) {
		t.Fatalf("duplicate AddPreset err=%v, want ErrPresetExists", err)
	}
}

func TestPresetOverrideIsCopied(t *testing.T) {
	store := NewCatalog()
	if err := store.AddMaterial(stony()); err != nil {
		t.Fatalf("AddMaterial error: %v", err)
	}
	p := preset("29075", "29075 (1950 DA)")
	p.Override = &model.PresetOverride{TargetImpactVelocityKmS: 17.97, TargetFinalDiameterKm: 0.792}
	if err := store.AddPreset(p); err != nil {
		t.Fatalf("AddPreset error: %v", err)
	}
	p.Override.TargetFinalDiameterKm = 0

	got, err := store.GetPreset("29075")
	if err != nil {
		t.Fatalf("GetPreset error: %v", err)
	}
	if got.Override == nil || got.Override.TargetFinalDiameterKm != 0.792 {
		t.Fatalf("stored override mutated through caller pointer: %#v", got.Override)
	}
	got.Override.TargetImpactVelocityKmS = 1
	again, _ := store.GetPreset("29075")
	if again.Override.TargetImpactVelocityKmS != 17.97 {
		t.Fatalf("stored override mutated through returned pointer")
	}
}

func TestListSorted(t *testing.T) {
	store := NewCatalog()
	if err := store.AddMaterial(stony()); err != nil {
		t.Fatalf("AddMaterial error: %v", err)
	}
	iron := stony()
	iron.ID, iron.Name, iron.Density = "iron", "Iron Asteroid", 7800
	if err := store.AddMaterial(iron); err != nil {
		t.Fatalf("AddMaterial error: %v", err)
	}
	for i, name := range []string{"Ryugu", "Apophis", "Eros"} {
		if err := store.AddPreset(preset(fmt.Sprintf("p-%d", i), name)); err != nil {
			t.Fatalf("AddPreset error: %v", err)
		}
	}

	mats := store.ListMaterials()
	if len(mats) != 2 || mats[0].ID != "iron" || mats[1].ID != "stony" {
		t.Fatalf("ListMaterials order = %v", mats)
	}
	presets := store.ListPresets()
	want := []string{"Apophis", "Eros", "Ryugu"}
	if len(presets) != len(want) {
		t.Fatalf("ListPresets len=%d, want %d", len(presets), len(want))
	}
	for i, p := range presets {
		if p.Name != want[i] {
			t.Fatalf("ListPresets[%d]=%q, want %q", i, p.Name, want[i])
		}
	}
}

func TestSubscribe(t *testing.T) {
	store := NewCatalog()

	var mu sync.Mutex
	var got []EventType
	unsubscribe := store.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.Type)
	})

	if err := store.AddMaterial(stony()); err != nil {
		t.Fatalf("AddMaterial error: %v", err)
	}
	if err := store.AddPreset(preset("p1", "P1")); err != nil {
		t.Fatalf("AddPreset error: %v", err)
	}
	if err := store.RemovePreset("p1"); err != nil {
		t.Fatalf("RemovePreset error: %v", err)
	}

	unsubscribe()
	unsubscribe()
	if err := store.AddPreset(preset("p2", "P2")); err != nil {
		t.Fatalf("AddPreset error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []EventType{EventMaterialAdded, EventPresetAdded, EventPresetRemoved}
	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event[%d]=%v, want %v", i, got[i], want[i])
		}
	}
}

func TestSubscriberMayReadCatalog(t *testing.T) {
	store := NewCatalog()
	var seen model.MaterialProfile
	store.Subscribe(func(e Event) {
		seen, _ = store.GetMaterial(e.Material.ID)
	})
	if err := store.AddMaterial(stony()); err != nil {
		t.Fatalf("AddMaterial error: %v", err)
	}
	if seen.ID != "stony" {
		t.Fatalf("subscriber read %#v, want stony", seen)
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := NewCatalog()
	if err := store.AddMaterial(stony()); err != nil {
		t.Fatalf("AddMaterial error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.GetMaterial("stony")
			_ = store.ListPresets()
		}()
		go func() {
			defer wg.Done()
			_ = store.AddPreset(preset(fmt.Sprintf("p-%d", i), "P"))
		}()
	}
	wg.Wait()

	if got := len(store.ListPresets()); got != 10 {
		t.Fatalf("ListPresets len=%d, want 10", got)
	}
}
