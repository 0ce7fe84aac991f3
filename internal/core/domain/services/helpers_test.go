package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

// Town layout used across the tests:
//
//	A (Primary) -- B (Primary)
//	|
//	C (Secondary, prefers 20:30 and 20:45) -- D (Secondary, prefers 19:30)
func newTown(t *testing.T) *services.ZoneRegistry {
	t.Helper()

	zones := []*zone.Zone{
		newZone(t, "a", zone.Primary, []string{"Main Street"}, []zone.ID{"b", "c"}),
		newZone(t, "b", zone.Primary, []string{"Baker Lane"}, nil),
		newZone(t, "c", zone.Secondary, []string{"Hill Road"}, nil, "20:30", "20:45"),
		newZone(t, "d", zone.Secondary, []string{"Far Lane"}, []zone.ID{"c"}, "19:30"),
	}

	registry, err := services.NewZoneRegistry(zones)
	require.NoError(t, err)
	return registry
}

func newZone(t *testing.T, id zone.ID, p zone.Priority, streets []string, neighbors []zone.ID, preferred ...string) *zone.Zone {
	t.Helper()

	slots := make([]kernel.Slot, 0, len(preferred))
	for _, label := range preferred {
		slots = append(slots, kernel.MustParseSlot(label))
	}

	z, err := zone.NewZone(id, string(id), p, streets, neighbors, slots)
	require.NoError(t, err)
	return z
}

func newCourier(t *testing.T, status courier.Status) *courier.Courier {
	t.Helper()
	c, err := courier.RestoreCourier(kernel.NewUUID(), "rider", status)
	require.NoError(t, err)
	return c
}

func newOrder(t *testing.T, zoneID zone.ID, slot kernel.Slot) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), &zoneID, slot)
	require.NoError(t, err)
	return o
}

// newBatch returns a batch of zoneID in slot with size placeholder members.
func newBatch(t *testing.T, zoneID zone.ID, slot kernel.Slot, size int) *batch.Batch {
	t.Helper()
	b, err := batch.NewBatch(kernel.NewUUID(), zoneID, slot)
	require.NoError(t, err)
	for range size {
		require.NoError(t, b.AddOrder(kernel.NewUUID()))
	}
	return b
}

func assignedBatch(t *testing.T, zoneID zone.ID, slot kernel.Slot, c *courier.Courier, size int) *batch.Batch {
	t.Helper()
	b := newBatch(t, zoneID, slot, size)
	require.NoError(t, b.AssignCourier(c.ID()))
	return b
}
