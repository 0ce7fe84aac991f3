package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchAssigner_Decide(t *testing.T) {
	registry := newTown(t)
	slot := kernel.MustParseSlot("20:15-20:30")
	assigner := services.NewBatchAssigner()

	t.Run("same zone batch wins over an adjacent one", func(t *testing.T) {
		neighbor := newBatch(t, "b", slot, 1)
		own := newBatch(t, "a", slot, 2)

		got, err := assigner.Decide(newOrder(t, "a", slot), registry, []*batch.Batch{neighbor, own}, 1)

		require.NoError(t, err)
		assert.Equal(t, services.JoinedBatch, got.Outcome)
		assert.True(t, got.Batch.IsEqual(own))
	})

	t.Run("first same zone batch with room in given order", func(t *testing.T) {
		full := newBatch(t, "a", slot, 3)
		first := newBatch(t, "a", slot, 1)
		second := newBatch(t, "a", slot, 0)

		got, err := assigner.Decide(newOrder(t, "a", slot), registry, []*batch.Batch{full, first, second}, 0)

		require.NoError(t, err)
		assert.True(t, got.Batch.IsEqual(first))
	})

	t.Run("primary order joins an adjacent primary batch", func(t *testing.T) {
		neighbor := newBatch(t, "b", slot, 2)

		got, err := assigner.Decide(newOrder(t, "a", slot), registry, []*batch.Batch{neighbor}, 1)

		require.NoError(t, err)
		assert.Equal(t, services.JoinedBatch, got.Outcome)
		assert.True(t, got.Batch.IsEqual(neighbor))
	})

	t.Run("primary order never joins an adjacent secondary batch", func(t *testing.T) {
		secondary := newBatch(t, "c", slot, 1)

		got, err := assigner.Decide(newOrder(t, "a", slot), registry, []*batch.Batch{secondary}, 1)

		require.NoError(t, err)
		assert.Equal(t, services.NewBatchCreated, got.Outcome)
	})

	t.Run("secondary order is never joined into another zone", func(t *testing.T) {
		batches := []*batch.Batch{newBatch(t, "a", slot, 1), newBatch(t, "d", slot, 0)}

		withCourier, err := assigner.Decide(newOrder(t, "c", slot), registry, batches, 1)
		require.NoError(t, err)
		assert.Equal(t, services.NewBatchCreated, withCourier.Outcome)
		assert.Nil(t, withCourier.Batch)

		withoutCourier, err := assigner.Decide(newOrder(t, "c", slot), registry, batches, 0)
		require.NoError(t, err)
		assert.Equal(t, services.Deferred, withoutCourier.Outcome)
	})

	t.Run("non adjacent primary batch is ignored", func(t *testing.T) {
		got, err := assigner.Decide(newOrder(t, "b", slot), registry, []*batch.Batch{newBatch(t, "c", slot, 0)}, 0)

		require.NoError(t, err)
		assert.Equal(t, services.Deferred, got.Outcome)
	})

	t.Run("completed and other slot batches are ignored", func(t *testing.T) {
		c := newCourier(t, courier.Available)
		done, err := batch.RestoreBatch(kernel.NewUUID(), "a", slot, ptr(c.ID()), []kernel.UUID{kernel.NewUUID()}, batch.Completed)
		require.NoError(t, err)
		later := newBatch(t, "a", slot.Next(), 0)

		got, err := assigner.Decide(newOrder(t, "a", slot), registry, []*batch.Batch{done, later}, 1)

		require.NoError(t, err)
		assert.Equal(t, services.NewBatchCreated, got.Outcome)
	})

	t.Run("defers to the next slot when nothing fits", func(t *testing.T) {
		got, err := assigner.Decide(newOrder(t, "a", slot), registry, []*batch.Batch{newBatch(t, "a", slot, 3)}, 0)

		require.NoError(t, err)
		assert.Equal(t, services.Deferred, got.Outcome)
		assert.Equal(t, "20:30-20:45", got.SuggestedSlot.String())
		assert.Nil(t, got.Batch)
	})

	t.Run("deferral wraps at the hour and at midnight", func(t *testing.T) {
		for label, want := range map[string]string{
			"20:45-21:00": "21:00-21:15",
			"23:45-00:00": "00:00-00:15",
		} {
			got, err := assigner.Decide(newOrder(t, "a", kernel.MustParseSlot(label)), registry, nil, 0)
			require.NoError(t, err)
			assert.Equal(t, want, got.SuggestedSlot.String())
		}
	})

	t.Run("unresolved orders are rejected", func(t *testing.T) {
		pickup, err := order.NewOrder(kernel.NewUUID(), nil, slot)
		require.NoError(t, err)

		_, err = assigner.Decide(pickup, registry, nil, 1)
		require.ErrorIs(t, err, services.ErrZoneUnresolved)

		_, err = assigner.Decide(newOrder(t, "nowhere", slot), registry, nil, 1)
		require.ErrorIs(t, err, services.ErrZoneUnresolved)
	})

	t.Run("does not mutate batches", func(t *testing.T) {
		b := newBatch(t, "a", slot, 1)

		_, err := assigner.Decide(newOrder(t, "a", slot), registry, []*batch.Batch{b}, 1)

		require.NoError(t, err)
		assert.Equal(t, 1, b.Len())
	})
}

func TestBatchAssignment_FillsRunsInOrder(t *testing.T) {
	registry := newTown(t)
	slot := kernel.MustParseSlot("19:00-19:15")
	couriers := []*courier.Courier{newCourier(t, courier.Available), newCourier(t, courier.Available)}

	var (
		assigner     = services.NewBatchAssigner()
		lifecycle    = services.NewBatchLifecycle()
		availability = services.NewCourierAvailability()
		calculator   = services.NewSlotCapacityCalculator(0)
		batches      []*batch.Batch
		orders       []*order.Order
	)

	place := func() (services.Decision, *batch.Batch) {
		o := newOrder(t, "a", slot)

		capacity, err := calculator.Calculate("a", slot, registry, couriers, batches, orders)
		require.NoError(t, err)
		require.True(t, capacity.Available)

		d, err := assigner.Decide(o, registry, batches, availability.Unreserved(slot, couriers, batches))
		require.NoError(t, err)

		b, err := lifecycle.Apply(d, o)
		require.NoError(t, err)
		if d.Outcome == services.NewBatchCreated {
			batches = append(batches, b)
		}
		orders = append(orders, o)
		return d, b
	}

	d1, batch1 := place()
	assert.Equal(t, services.NewBatchCreated, d1.Outcome)

	for range 2 {
		d, b := place()
		assert.Equal(t, services.JoinedBatch, d.Outcome)
		assert.True(t, b.IsEqual(batch1))
	}
	assert.True(t, batch1.IsFull())

	d4, batch2 := place()
	assert.Equal(t, services.NewBatchCreated, d4.Outcome)
	assert.False(t, batch2.IsEqual(batch1))

	capacity, err := calculator.Calculate("a", slot, registry, couriers, batches, orders)
	require.NoError(t, err)
	assert.Equal(t, 2, capacity.Remaining)
}
