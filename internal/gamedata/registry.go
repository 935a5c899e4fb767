package gamedata

import (
	"errors"
	"fmt"
)

// DefaultMapID is the map used when none is configured.
const DefaultMapID = "arena"

// MapRegistry holds loaded map definitions.
type MapRegistry struct {
	maps map[string]*MapDef
	all  []MapDef
}

// NewMapRegistry creates a registry from loaded map definitions.
func NewMapRegistry(maps []MapDef) *MapRegistry {
	registry := &MapRegistry{
		maps: make(map[string]*MapDef),
		all:  maps,
	}
	for i := range maps {
		registry.maps[maps[i].ID] = &maps[i]
	}
	return registry
}

// LoadMapRegistry loads and creates a registry from the embedded maps.json.
// Every map is parsed up front so a broken catalogue fails at startup.
func LoadMapRegistry() (*MapRegistry, error) {
	maps, err := LoadMaps()
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, errors.New("no maps loaded from maps.json")
	}
	if err := validate(maps); err != nil {
		return nil, err
	}
	return NewMapRegistry(maps), nil
}

// validate parses every map, checks its spawn point and rejects repeated IDs.
func validate(maps []MapDef) error {
	seen := make(map[string]bool, len(maps))
	for i := range maps {
		m := &maps[i]
		if m.ID == "" {
			return fmt.Errorf("map %d has no id", i)
		}
		if seen[m.ID] {
			return fmt.Errorf("map %q is defined twice", m.ID)
		}
		seen[m.ID] = true
		grid, err := m.Grid()
		if err != nil {
			return fmt.Errorf("map %q: %w", m.ID, err)
		}
		x, y := int(m.Spawn.X), int(m.Spawn.Y)
		if m.Spawn.X < 0 || m.Spawn.Y < 0 || !grid.InBounds(x, y) {
			return fmt.Errorf("map %q: spawn (%v, %v) is outside the map", m.ID, m.Spawn.X, m.Spawn.Y)
		}
	}
	return nil
}

// Add validates maps and adds them to the registry. A map whose ID is
// already present replaces the existing one in place.
func (r *MapRegistry) Add(maps []MapDef) error {
	if err := validate(maps); err != nil {
		return err
	}
	index := make(map[string]int, len(r.all))
	for i := range r.all {
		index[r.all[i].ID] = i
	}
	for _, m := range maps {
		if i, ok := index[m.ID]; ok {
			r.all[i] = m
			continue
		}
		index[m.ID] = len(r.all)
		r.all = append(r.all, m)
	}
	// Appending may have moved the backing array.
	for i := range r.all {
		r.maps[r.all[i].ID] = &r.all[i]
	}
	return nil
}

// MustLoadMapRegistry loads a registry, panicking on error.
func MustLoadMapRegistry() *MapRegistry {
	registry, err := LoadMapRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the map definition with the given ID, or nil if not found.
func (r *MapRegistry) GetByID(id string) *MapDef {
	return r.maps[id]
}

// IDs returns the map IDs in catalogue order.
func (r *MapRegistry) IDs() []string {
	ids := make([]string, len(r.all))
	for i := range r.all {
		ids[i] = r.all[i].ID
	}
	return ids
}

// All returns all map definitions.
func (r *MapRegistry) All() []MapDef {
	return r.all
}

// Count returns the number of maps in the registry.
func (r *MapRegistry) Count() int {
	return len(r.all)
}
