package kb

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/signalsfoundry/impact-simulator/model"
)

var (
	ErrMaterialExists   = errors.New("material already exists")
	ErrMaterialNotFound = errors.New("material not found")
	ErrPresetExists     = errors.New("preset already exists")
	ErrPresetNotFound   = errors.New("preset not found")
	ErrInvalidEntry     = errors.New("invalid catalog entry")
)

// EventType indicates what kind of change happened in the catalog.
type EventType int

const (
	EventMaterialAdded EventType = iota
	EventPresetAdded
	EventPresetRemoved
)

func (t EventType) String() string {
	switch t {
	case EventMaterialAdded:
		return "material_added"
	case EventPresetAdded:
		return "preset_added"
	case EventPresetRemoved:
		return "preset_removed"
	default:
		return "unknown"
	}
}

// Event is emitted to subscribers after the catalog changes.
type Event struct {
	Type     EventType
	Material model.MaterialProfile
	Preset   model.AsteroidPreset
}

// Catalog is an in-memory, thread-safe store of material profiles and
// asteroid presets. Values are copied in and out so callers never share
// mutable state with the store.
type Catalog struct {
	mu sync.RWMutex

	materials map[string]model.MaterialProfile
	presets   map[string]model.AsteroidPreset

	nextSub int
	subs    map[int]func(Event)
}

// NewCatalog constructs an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		materials: make(map[string]model.MaterialProfile),
		presets:   make(map[string]model.AsteroidPreset),
		subs:      make(map[int]func(Event)),
	}
}

func key(id string) string { return strings.ToLower(strings.TrimSpace(id)) }

// AddMaterial stores m. Material ids are case-insensitive.
func (c *Catalog) AddMaterial(m model.MaterialProfile) error {
	if key(m.ID) == "" {
		return fmt.Errorf("%w: material id is empty", ErrInvalidEntry)
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	c.mu.Lock()
	k := key(m.ID)
	if _, exists := c.materials[k]; exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrMaterialExists, m.ID)
	}
	c.materials[k] = m
	subs := c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, Event{Type: EventMaterialAdded, Material: m})
	return nil
}

// GetMaterial returns the material with the given id.
func (c *Catalog) GetMaterial(id string) (model.MaterialProfile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.materials[key(id)]
	if !ok {
		return model.MaterialProfile{}, fmt.Errorf("%w: %q", ErrMaterialNotFound, id)
	}
	return m, nil
}

// ListMaterials returns all materials ordered by id.
func (c *Catalog) ListMaterials() []model.MaterialProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]model.MaterialProfile, 0, len(c.materials))
	for _, m := range c.materials {
		res = append(res, m)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// AddPreset stores p. Its material must already be in the catalog.
func (c *Catalog) AddPreset(p model.AsteroidPreset) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: preset id is empty", ErrInvalidEntry)
	}
	if p.DiameterKm <= 0 || p.VelocityKmS <= 0 {
		return fmt.Errorf("%w: preset %q needs positive diameter and velocity", ErrInvalidEntry, p.ID)
	}
	p.Override = cloneOverride(p.Override)

	c.mu.Lock()
	if _, ok := c.materials[key(p.MaterialID)]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q referenced by preset %q", ErrMaterialNotFound, p.MaterialID, p.ID)
	}
	if _, exists := c.presets[p.ID]; exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrPresetExists, p.ID)
	}
	c.presets[p.ID] = p
	subs := c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, Event{Type: EventPresetAdded, Preset: p})
	return nil
}

// GetPreset returns the preset with the given id.
func (c *Catalog) GetPreset(id string) (model.AsteroidPreset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.presets[id]
	if !ok {
		return model.AsteroidPreset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
	}
	p.Override = cloneOverride(p.Override)
	return p, nil
}

// RemovePreset deletes a preset.
func (c *Catalog) RemovePreset(id string) error {
	c.mu.Lock()
	p, ok := c.presets[id]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrPresetNotFound, id)
	}
	delete(c.presets, id)
	subs := c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, Event{Type: EventPresetRemoved, Preset: p})
	return nil
}

// ListPresets returns all presets ordered by name, then id.
func (c *Catalog) ListPresets() []model.AsteroidPreset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]model.AsteroidPreset, 0, len(c.presets))
	for _, p := range c.presets {
		p.Override = cloneOverride(p.Override)
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].ID < res[j].ID
	})
	return res
}

// Subscribe registers a callback for catalog events. It returns an
// unsubscribe function that is safe to call more than once.
func (c *Catalog) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
		})
	}
}

func (c *Catalog) subscribersLocked() []func(Event) {
	subs := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

// notify runs outside the lock so subscribers may call back into the
// catalog.
func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}

func cloneOverride(o *model.PresetOverride) *model.PresetOverride {
	if o == nil {
		return nil
	}
	cp := *o
	return &cp
}
