package services

import (
	"errors"
	"fmt"
	"slices"

	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
)

// ErrZoneUnresolved means the address or order has no delivery zone.
var ErrZoneUnresolved = errors.New("address is not covered by delivery")

// ZoneRegistry is an immutable lookup built from the zone table.
type ZoneRegistry struct {
	zones     map[zone.ID]*zone.Zone
	streets   map[string]zone.ID
	neighbors map[zone.ID][]zone.ID
	ids       []zone.ID
}

// NewZoneRegistry indexes zones. Adjacency is made symmetric and neighbor ids
// that name no known zone are ignored. When a street is listed by more than one
// zone, the zone that appears first keeps it.
func NewZoneRegistry(zones []*zone.Zone) (*ZoneRegistry, error) {
	r := &ZoneRegistry{
		zones:     make(map[zone.ID]*zone.Zone, len(zones)),
		streets:   make(map[string]zone.ID),
		neighbors: make(map[zone.ID][]zone.ID, len(zones)),
		ids:       make([]zone.ID, 0, len(zones)),
	}

	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return nil, err
		}
		if _, ok := r.zones[z.ID()]; ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("zones", fmt.Errorf("zone %q is declared twice", z.ID()))
		}
		r.zones[z.ID()] = z
		r.ids = append(r.ids, z.ID())

		for _, street := range z.Streets() {
			if _, taken := r.streets[street]; !taken {
				r.streets[street] = z.ID()
			}
		}
	}

	for _, z := range zones {
		for _, n := range z.Neighbors() {
			if _, ok := r.zones[n]; !ok {
				continue
			}
			r.link(z.ID(), n)
			r.link(n, z.ID())
		}
	}
	for id := range r.neighbors {
		slices.Sort(r.neighbors[id])
	}
	slices.Sort(r.ids)

	return r, nil
}

// ResolveZone maps a street name to the zone covering it.
func (r *ZoneRegistry) ResolveZone(street string) (zone.ID, error) {
	id, ok := r.streets[zone.NormalizeStreet(street)]
	if !ok {
		return "", ErrZoneUnresolved
	}
	return id, nil
}

func (r *ZoneRegistry) Zone(id zone.ID) (*zone.Zone, error) {
	z, ok := r.zones[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("zone", id)
	}
	return z, nil
}

func (r *ZoneRegistry) Contains(id zone.ID) bool {
	_, ok := r.zones[id]
	return ok
}

// Neighbors returns the adjacent zones of id in sorted order.
func (r *ZoneRegistry) Neighbors(id zone.ID) []zone.ID {
	return slices.Clone(r.neighbors[id])
}

// AreNeighbors reports whether a and b share an edge.
func (r *ZoneRegistry) AreNeighbors(a, b zone.ID) bool {
	return slices.Contains(r.neighbors[a], b)
}

// IsPrimary is false for unknown zones.
func (r *ZoneRegistry) IsPrimary(id zone.ID) bool {
	z, ok := r.zones[id]
	return ok && z.IsPrimary()
}

// Area returns id followed by its neighbors: the zones that share capacity with id.
func (r *ZoneRegistry) Area(id zone.ID) []zone.ID {
	return append([]zone.ID{id}, r.neighbors[id]...)
}

// Zones returns every zone ordered by id.
func (r *ZoneRegistry) Zones() []*zone.Zone {
	out := make([]*zone.Zone, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.zones[id])
	}
	return out
}

func (r *ZoneRegistry) link(from, to zone.ID) {
	if !slices.Contains(r.neighbors[from], to) {
		r.neighbors[from] = append(r.neighbors[from], to)
	}
}
