package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchLifecycle_AssignCourier(t *testing.T) {
	slot := kernel.MustParseSlot("19:00-19:15")
	lifecycle := services.NewBatchLifecycle()

	t.Run("attaches a free courier", func(t *testing.T) {
		b := newBatch(t, "a", slot, 1)
		c := newCourier(t, courier.Available)

		require.NoError(t, lifecycle.AssignCourier(b, c, []*batch.Batch{b}))

		assert.Equal(t, batch.Assigned, b.Status())
		assert.True(t, b.HasCourier(c.ID()))
	})

	t.Run("refuses a courier already holding a batch in the slot", func(t *testing.T) {
		c := newCourier(t, courier.Available)
		held := assignedBatch(t, "b", slot, c, 1)
		b := newBatch(t, "a", slot, 1)

		err := lifecycle.AssignCourier(b, c, []*batch.Batch{held, b})

		require.ErrorIs(t, err, batch.ErrCourierDoubleBooked)
		assert.Equal(t, batch.Pending, b.Status())
	})

	t.Run("a batch in another slot does not block", func(t *testing.T) {
		c := newCourier(t, courier.Available)
		held := assignedBatch(t, "a", slot.Next(), c, 1)
		b := newBatch(t, "a", slot, 1)

		require.NoError(t, lifecycle.AssignCourier(b, c, []*batch.Batch{held, b}))
	})

	t.Run("reassigning the same courier is a no-op", func(t *testing.T) {
		c := newCourier(t, courier.Available)
		b := assignedBatch(t, "a", slot, c, 1)

		require.NoError(t, lifecycle.AssignCourier(b, c, []*batch.Batch{b}))
		assert.True(t, b.HasCourier(c.ID()))
	})

	t.Run("refuses couriers that are not available", func(t *testing.T) {
		for _, status := range []courier.Status{courier.OffShift, courier.OnRun} {
			err := lifecycle.AssignCourier(newBatch(t, "a", slot, 1), newCourier(t, status), nil)
			require.ErrorIs(t, err, services.ErrCourierUnavailable)
		}
	})

	t.Run("refuses a completed batch", func(t *testing.T) {
		done, err := batch.RestoreBatch(kernel.NewUUID(), "a", slot, ptr(kernel.NewUUID()), nil, batch.Completed)
		require.NoError(t, err)

		err = lifecycle.AssignCourier(done, newCourier(t, courier.Available), nil)
		require.ErrorIs(t, err, batch.ErrBatchCompleted)
	})
}

func TestBatchLifecycle_Membership(t *testing.T) {
	slot := kernel.MustParseSlot("19:00-19:15")
	lifecycle := services.NewBatchLifecycle()

	t.Run("add and remove keep both sides in step", func(t *testing.T) {
		b, err := lifecycle.CreateBatch("a", slot)
		require.NoError(t, err)
		o := newOrder(t, "a", slot)

		require.NoError(t, lifecycle.AddOrder(b, o))
		assert.True(t, b.Contains(o.ID()))
		assert.Equal(t, b.ID(), *o.Batch())

		require.NoError(t, lifecycle.RemoveOrder(b, o))
		assert.False(t, b.Contains(o.ID()))
		assert.Equal(t, order.Placed, o.Status())
		assert.Equal(t, batch.Pending, b.Status())
	})

	t.Run("full batch rejects and leaves the order untouched", func(t *testing.T) {
		b := newBatch(t, "a", slot, 3)
		o := newOrder(t, "a", slot)

		require.ErrorIs(t, lifecycle.AddOrder(b, o), batch.ErrBatchFull)
		assert.Equal(t, order.Placed, o.Status())
	})

	t.Run("an order in another batch is rolled back out", func(t *testing.T) {
		b := newBatch(t, "a", slot, 0)
		o := newOrder(t, "a", slot)
		require.NoError(t, o.JoinBatch(kernel.NewUUID()))

		require.ErrorIs(t, lifecycle.AddOrder(b, o), errs.ErrValueIsInvalid)
		assert.True(t, b.IsEmpty())
	})

	t.Run("slot must match", func(t *testing.T) {
		b := newBatch(t, "a", slot, 0)

		require.ErrorIs(t, lifecycle.AddOrder(b, newOrder(t, "a", slot.Next())), errs.ErrValueIsInvalid)
	})

	t.Run("pickup orders are never batched", func(t *testing.T) {
		pickup, err := order.NewOrder(kernel.NewUUID(), nil, slot)
		require.NoError(t, err)

		require.ErrorIs(t, lifecycle.AddOrder(newBatch(t, "a", slot, 0), pickup), services.ErrZoneUnresolved)
	})

	t.Run("completed batch is immutable", func(t *testing.T) {
		member := newOrder(t, "a", slot)
		b, err := batch.RestoreBatch(kernel.NewUUID(), "a", slot, ptr(kernel.NewUUID()), []kernel.UUID{member.ID()}, batch.Completed)
		require.NoError(t, err)
		require.NoError(t, member.JoinBatch(b.ID()))

		require.ErrorIs(t, lifecycle.AddOrder(b, newOrder(t, "a", slot)), batch.ErrBatchCompleted)
		require.ErrorIs(t, lifecycle.RemoveOrder(b, member), batch.ErrBatchCompleted)
		require.ErrorIs(t, lifecycle.AssignCourier(b, newCourier(t, courier.Available), nil), batch.ErrBatchCompleted)
		require.ErrorIs(t, lifecycle.DeleteBatch(b, []*order.Order{member}, nil), batch.ErrBatchCompleted)
		assert.Equal(t, order.Batched, member.Status())
	})
}

func TestBatchLifecycle_Run(t *testing.T) {
	slot := kernel.MustParseSlot("19:00-19:15")
	lifecycle := services.NewBatchLifecycle()

	setup := func(t *testing.T) (*batch.Batch, *courier.Courier, []*order.Order) {
		t.Helper()
		b, err := lifecycle.CreateBatch("a", slot)
		require.NoError(t, err)
		members := []*order.Order{newOrder(t, "a", slot), newOrder(t, "a", slot)}
		for _, o := range members {
			require.NoError(t, lifecycle.AddOrder(b, o))
		}
		c := newCourier(t, courier.Available)
		require.NoError(t, lifecycle.AssignCourier(b, c, []*batch.Batch{b}))
		return b, c, members
	}

	t.Run("start then complete once everything is delivered", func(t *testing.T) {
		b, c, members := setup(t)

		require.NoError(t, lifecycle.StartRun(b, c))
		assert.Equal(t, batch.InProgress, b.Status())
		assert.Equal(t, courier.OnRun, c.Status())

		require.NoError(t, members[0].MarkDelivered())
		require.ErrorIs(t, lifecycle.CompleteRun(b, members, c), services.ErrUndeliveredOrders)
		assert.Equal(t, batch.InProgress, b.Status())

		require.NoError(t, members[1].MarkDelivered())
		require.NoError(t, lifecycle.CompleteRun(b, members, c))
		assert.Equal(t, batch.Completed, b.Status())
		assert.Equal(t, courier.Available, c.Status())
	})

	t.Run("missing members count as undelivered", func(t *testing.T) {
		b, c, members := setup(t)
		require.NoError(t, lifecycle.StartRun(b, c))
		require.NoError(t, members[0].MarkDelivered())

		require.ErrorIs(t, lifecycle.CompleteRun(b, members[:1], c), services.ErrUndeliveredOrders)
	})

	t.Run("only the assigned courier can start the run", func(t *testing.T) {
		b, _, _ := setup(t)

		require.ErrorIs(t, lifecycle.StartRun(b, newCourier(t, courier.Available)), services.ErrCourierUnavailable)
		assert.Equal(t, batch.Assigned, b.Status())
	})

	t.Run("courier who went off shift cannot start", func(t *testing.T) {
		b, c, _ := setup(t)
		require.NoError(t, c.ChangeStatus(courier.OffShift))

		require.ErrorIs(t, lifecycle.StartRun(b, c), services.ErrCourierUnavailable)
	})

	t.Run("delete reverts members and frees the courier", func(t *testing.T) {
		b, c, members := setup(t)
		require.NoError(t, lifecycle.StartRun(b, c))
		require.NoError(t, members[0].MarkDelivered())

		require.NoError(t, lifecycle.DeleteBatch(b, members, c))

		assert.Equal(t, order.Delivered, members[0].Status())
		assert.Nil(t, members[0].Batch())
		assert.Equal(t, order.Placed, members[1].Status())
		assert.Nil(t, members[1].Batch())
		assert.Equal(t, courier.Available, c.Status())
	})

	t.Run("delete of a pending batch leaves couriers alone", func(t *testing.T) {
		b := newBatch(t, "a", slot, 0)
		o := newOrder(t, "a", slot)
		require.NoError(t, lifecycle.AddOrder(b, o))

		require.NoError(t, lifecycle.DeleteBatch(b, []*order.Order{o}, nil))
		assert.Equal(t, order.Placed, o.Status())
	})

	t.Run("delete rejects foreign orders", func(t *testing.T) {
		b := newBatch(t, "a", slot, 0)

		require.ErrorIs(t, lifecycle.DeleteBatch(b, []*order.Order{newOrder(t, "a", slot)}, nil), batch.ErrOrderNotInBatch)
	})
}

func TestBatchLifecycle_Apply(t *testing.T) {
	slot := kernel.MustParseSlot("19:00-19:15")
	lifecycle := services.NewBatchLifecycle()

	t.Run("join", func(t *testing.T) {
		target := newBatch(t, "b", slot, 1)
		o := newOrder(t, "a", slot)

		got, err := lifecycle.Apply(services.Decision{Outcome: services.JoinedBatch, Batch: target}, o)

		require.NoError(t, err)
		assert.True(t, got.IsEqual(target))
		assert.Equal(t, 2, target.Len())
		assert.True(t, o.IsBatched())
	})

	t.Run("new batch", func(t *testing.T) {
		o := newOrder(t, "a", slot)

		got, err := lifecycle.Apply(services.Decision{Outcome: services.NewBatchCreated}, o)

		require.NoError(t, err)
		assert.Equal(t, batch.Pending, got.Status())
		assert.Equal(t, []kernel.UUID{o.ID()}, got.OrderIDs())
		assert.Equal(t, o.Slot(), got.Slot())
	})

	t.Run("deferred leaves the order placed", func(t *testing.T) {
		o := newOrder(t, "a", slot)

		got, err := lifecycle.Apply(services.Decision{Outcome: services.Deferred, SuggestedSlot: slot.Next()}, o)

		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, order.Placed, o.Status())
	})

	t.Run("unknown outcome", func(t *testing.T) {
		_, err := lifecycle.Apply(services.Decision{}, newOrder(t, "a", slot))
		require.Error(t, err)
	})
}
