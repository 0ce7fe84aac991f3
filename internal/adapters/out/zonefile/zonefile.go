// Package zonefile reads the territory table from YAML:
//
//	zones:
//	  - id: old-town
//	    name: Old Town
//	    priority: primary
//	    streets: [Main Street, Baker Lane]
//	    neighbors: [harbor]
//	    preferredSlots: ["20:30", "20:45"]
package zonefile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"

	"gopkg.in/yaml.v3"
)

type document struct {
	Zones []entry `yaml:"zones"`
}

type entry struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Priority       string   `yaml:"priority"`
	Streets        []string `yaml:"streets"`
	Neighbors      []string `yaml:"neighbors"`
	PreferredSlots []string `yaml:"preferredSlots"`
}

// Load reads the zone table at path.
func Load(path string) ([]*zone.Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open zone file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a zone table. Every malformed entry is reported, not only the first.
func Parse(r io.Reader) ([]*zone.Zone, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode zone file: %w", err)
	}

	zones := make([]*zone.Zone, 0, len(doc.Zones))
	var problems []error
	for i, e := range doc.Zones {
		z, err := e.toDomain()
		if err != nil {
			problems = append(problems, fmt.Errorf("zone #%d (%q): %w", i+1, e.ID, err))
			continue
		}
		zones = append(zones, z)
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return zones, nil
}

func (e entry) toDomain() (*zone.Zone, error) {
	id, err := zone.NewID(e.ID)
	if err != nil {
		return nil, err
	}

	priority, err := zone.ParsePriority(e.Priority)
	if err != nil {
		return nil, err
	}

	neighbors := make([]zone.ID, 0, len(e.Neighbors))
	for _, n := range e.Neighbors {
		neighbors = append(neighbors, zone.ID(n))
	}

	slots := make([]kernel.Slot, 0, len(e.PreferredSlots))
	for _, label := range e.PreferredSlots {
		slot, err := kernel.ParseSlot(label)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	name := e.Name
	if name == "" {
		name = e.ID
	}
	return zone.NewZone(id, name, priority, e.Streets, neighbors, slots)
}
