package zone

import (
	"errors"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone constructor")
	ErrIDIsRequired         = errs.NewValueIsRequiredError("zone id")
	ErrNameIsRequired       = errs.NewValueIsRequiredError("zone name")
)

// ID is the stable, operator-chosen identifier of a zone (for example "old-town").
type ID string

// NewID trims s and rejects blank identifiers.
func NewID(s string) (ID, error) {
	id := ID(strings.TrimSpace(s))
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

func (id ID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return ErrIDIsRequired
	}
	return nil
}

func (id ID) String() string {
	return string(id)
}

// NormalizeStreet is the canonical form used for street membership:
// surrounding whitespace removed, case folded. No other fuzziness is applied.
func NormalizeStreet(street string) string {
	return strings.ToLower(strings.TrimSpace(street))
}

// Zone is a delivery territory. It is immutable once constructed.
type Zone struct {
	id             ID
	name           string
	priority       Priority
	streets        map[string]struct{}
	neighbors      []ID
	preferredSlots []kernel.Slot
	guard          guard.ConstructorGuard
}

// NewZone validates and builds a zone.
//
// Streets are normalized and deduplicated; blank entries are dropped. Neighbors are
// deduplicated, sorted and never include the zone itself. Preferred slots only
// restrict offering for Secondary zones but are kept for every zone, because a
// Primary zone's preferences still widen what its Secondary neighbors may show.
func NewZone(
	id ID,
	name string,
	priority Priority,
	streets []string,
	neighbors []ID,
	preferredSlots []kernel.Slot,
) (*Zone, error) {
	z := &Zone{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		z.setID(id),
		z.setName(name),
		z.setPriority(priority),
		z.setPreferredSlots(preferredSlots),
	); err != nil {
		return nil, err
	}

	z.setStreets(streets)
	z.setNeighbors(neighbors)
	return z, nil
}

func (z *Zone) Validate() error {
	if z == nil {
		return ErrZoneIsNotConstructed
	}
	return z.guard.Validate(ErrZoneIsNotConstructed)
}

func (z *Zone) ID() ID {
	return z.id
}

func (z *Zone) Name() string {
	return z.name
}

func (z *Zone) Priority() Priority {
	return z.priority
}

func (z *Zone) IsPrimary() bool {
	return z.priority == Primary
}

// Streets returns the normalized street names in sorted order.
func (z *Zone) Streets() []string {
	out := make([]string, 0, len(z.streets))
	for s := range z.streets {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Covers reports whether street belongs to this zone (case-insensitive, trimmed, exact).
func (z *Zone) Covers(street string) bool {
	_, ok := z.streets[NormalizeStreet(street)]
	return ok
}

// Neighbors returns the declared adjacent zones in sorted order.
func (z *Zone) Neighbors() []ID {
	return slices.Clone(z.neighbors)
}

// PreferredSlots returns the preferred slot set in day order.
func (z *Zone) PreferredSlots() []kernel.Slot {
	return slices.Clone(z.preferredSlots)
}

func (z *Zone) HasPreferredSlots() bool {
	return len(z.preferredSlots) > 0
}

// Prefers reports whether slot is in the preferred set.
func (z *Zone) Prefers(slot kernel.Slot) bool {
	return slices.Contains(z.preferredSlots, slot)
}

// RestrictsOffering is true for a Secondary zone that declares preferred slots:
// only those slots may be offered to its customers.
func (z *Zone) RestrictsOffering() bool {
	return z.priority == Secondary && z.HasPreferredSlots()
}

func (z *Zone) setID(id ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	z.id = ID(strings.TrimSpace(string(id)))
	return nil
}

func (z *Zone) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	z.name = name
	return nil
}

func (z *Zone) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	z.priority = priority
	return nil
}

func (z *Zone) setStreets(streets []string) {
	z.streets = make(map[string]struct{}, len(streets))
	for _, s := range streets {
		if n := NormalizeStreet(s); n != "" {
			z.streets[n] = struct{}{}
		}
	}
}

func (z *Zone) setNeighbors(neighbors []ID) {
	z.neighbors = make([]ID, 0, len(neighbors))
	for _, n := range neighbors {
		n = ID(strings.TrimSpace(string(n)))
		if n == "" || n == z.id || slices.Contains(z.neighbors, n) {
			continue
		}
		z.neighbors = append(z.neighbors, n)
	}
	slices.Sort(z.neighbors)
}

func (z *Zone) setPreferredSlots(slots []kernel.Slot) error {
	z.preferredSlots = make([]kernel.Slot, 0, len(slots))
	for _, s := range slots {
		if err := s.Validate(); err != nil {
			return err
		}
		if !slices.Contains(z.preferredSlots, s) {
			z.preferredSlots = append(z.preferredSlots, s)
		}
	}
	slices.SortFunc(z.preferredSlots, func(a, b kernel.Slot) int {
		return a.StartMinutes() - b.StartMinutes()
	})
	return nil
}
