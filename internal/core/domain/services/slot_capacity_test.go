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

func TestSlotCapacityCalculator_Calculate(t *testing.T) {
	registry := newTown(t)
	slot := kernel.MustParseSlot("19:00-19:15")
	calculator := services.NewSlotCapacityCalculator(0)

	twoFree := func() []*courier.Courier {
		return []*courier.Courier{newCourier(t, courier.Available), newCourier(t, courier.Available)}
	}

	t.Run("two free couriers and no orders", func(t *testing.T) {
		got, err := calculator.Calculate("a", slot, registry, twoFree(), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 6, got.Total)
		assert.Equal(t, 0, got.Used)
		assert.Equal(t, 6, got.Remaining)
		assert.True(t, got.Available)
		assert.Empty(t, got.Reason)
	})

	t.Run("neighbor orders consume capacity both ways", func(t *testing.T) {
		orders := []*order.Order{
			newOrder(t, "b", slot),
			newOrder(t, "b", slot),
			newOrder(t, "a", slot),
		}

		forA, err := calculator.Calculate("a", slot, registry, twoFree(), nil, orders)
		require.NoError(t, err)
		assert.Equal(t, 3, forA.Used)

		forB, err := calculator.Calculate("b", slot, registry, twoFree(), nil, orders)
		require.NoError(t, err)
		assert.Equal(t, 3, forB.Used)

		forD, err := calculator.Calculate("d", slot, registry, twoFree(), nil, orders)
		require.NoError(t, err)
		assert.Equal(t, 0, forD.Used)
	})

	t.Run("only orders of the slot count", func(t *testing.T) {
		orders := []*order.Order{newOrder(t, "a", slot.Next()), newOrder(t, "a", slot)}

		got, err := calculator.Calculate("a", slot, registry, twoFree(), nil, orders)

		require.NoError(t, err)
		assert.Equal(t, 1, got.Used)
	})

	t.Run("pickup and delivered orders do not count", func(t *testing.T) {
		pickup, err := order.NewOrder(kernel.NewUUID(), nil, slot)
		require.NoError(t, err)
		delivered := newOrder(t, "a", slot)
		require.NoError(t, delivered.JoinBatch(kernel.NewUUID()))
		require.NoError(t, delivered.MarkDelivered())

		got, err := calculator.Calculate("a", slot, registry, twoFree(), nil, []*order.Order{pickup, delivered})

		require.NoError(t, err)
		assert.Equal(t, 0, got.Used)
	})

	t.Run("exhausted capacity carries a reason and never goes negative", func(t *testing.T) {
		orders := make([]*order.Order, 0, 4)
		for range 4 {
			orders = append(orders, newOrder(t, "a", slot))
		}

		got, err := calculator.Calculate("a", slot, registry, []*courier.Courier{newCourier(t, courier.Available)}, nil, orders)

		require.NoError(t, err)
		assert.Equal(t, 3, got.Total)
		assert.Equal(t, 4, got.Used)
		assert.Equal(t, 0, got.Remaining)
		assert.False(t, got.Available)
		assert.Equal(t, services.ReasonCapacityExhausted, got.Reason)
	})

	t.Run("no couriers means no capacity", func(t *testing.T) {
		got, err := calculator.Calculate("a", slot, registry, []*courier.Courier{newCourier(t, courier.OffShift)}, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, got.Total)
		assert.False(t, got.Available)
	})

	t.Run("attached couriers keep carrying capacity for their area", func(t *testing.T) {
		busy := newCourier(t, courier.Available)
		couriers := []*courier.Courier{busy, newCourier(t, courier.Available)}
		b := assignedBatch(t, "a", slot, busy, 3)
		orders := []*order.Order{newOrder(t, "a", slot), newOrder(t, "a", slot), newOrder(t, "a", slot)}

		got, err := calculator.Calculate("a", slot, registry, couriers, []*batch.Batch{b}, orders)
		require.NoError(t, err)
		assert.Equal(t, 6, got.Total)
		assert.Equal(t, 3, got.Remaining)

		elsewhere, err := calculator.Calculate("d", slot, registry, couriers, []*batch.Batch{b}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, elsewhere.Total)
	})

	t.Run("oven ceiling caps the courier total", func(t *testing.T) {
		capped := services.NewSlotCapacityCalculator(4)

		got, err := capped.Calculate("a", slot, registry, twoFree(), nil, []*order.Order{newOrder(t, "a", slot)})

		require.NoError(t, err)
		assert.Equal(t, 4, got.Total)
		assert.Equal(t, 3, got.Remaining)

		roomy := services.NewSlotCapacityCalculator(50)
		got, err = roomy.Calculate("a", slot, registry, twoFree(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 6, got.Total)
	})

	t.Run("unknown zone", func(t *testing.T) {
		_, err := calculator.Calculate("nowhere", slot, registry, twoFree(), nil, nil)
		require.ErrorIs(t, err, services.ErrZoneUnresolved)
	})

	t.Run("is a pure read", func(t *testing.T) {
		couriers := twoFree()
		orders := []*order.Order{newOrder(t, "a", slot)}

		first, err := calculator.Calculate("a", slot, registry, couriers, nil, orders)
		require.NoError(t, err)
		second, err := calculator.Calculate("a", slot, registry, couriers, nil, orders)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, order.Placed, orders[0].Status())
	})
}
