package commands_test

import (
	"context"
	"sync"
	"testing"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory struct {
	store *memory.Store
}

func (f storeFactory) Create() commands.UoW {
	return f.store.Create()
}

type courierStoreFactory struct {
	store *memory.Store
}

func (f courierStoreFactory) Create() commands.CourierUoW {
	return f.store.Create()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.BatchEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...ports.BatchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []ports.BatchEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.BatchEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// engine wires every batch command on one memory store.
type engine struct {
	store     *memory.Store
	publisher *recordingPublisher

	placeOrder    commands.PlaceOrderCommandHandler
	assignOrder   commands.AssignOrderCommandHandler
	assignBatched commands.AssignUnbatchedOrdersCommandHandler
	assignPending commands.AssignPendingBatchesCommandHandler
	assignCourier commands.AssignCourierCommandHandler
	startBatch    commands.StartBatchCommandHandler
	completeBatch commands.CompleteBatchCommandHandler
	deleteBatch   commands.DeleteBatchCommandHandler
	removeOrder   commands.RemoveOrderFromBatchCommandHandler
	markDelivered commands.MarkOrderDeliveredCommandHandler
	changeStatus  commands.ChangeCourierStatusCommandHandler
}

func newEngine(t *testing.T, zones ...*zone.Zone) *engine {
	t.Helper()

	store := memory.NewStore()
	for _, z := range zones {
		require.NoError(t, store.Create().ZoneRepository().Save(t.Context(), z))
	}

	factory := storeFactory{store: store}
	locker := commands.NewSlotLocker()
	publisher := &recordingPublisher{}
	assignOrder := commands.NewAssignOrderCommandHandler(factory, locker, publisher, nil)

	return &engine{
		store:         store,
		publisher:     publisher,
		placeOrder:    commands.NewPlaceOrderCommandHandler(factory, locker, services.NewSlotCapacityCalculator(0), publisher, nil),
		assignOrder:   assignOrder,
		assignBatched: commands.NewAssignUnbatchedOrdersCommandHandler(factory, assignOrder, nil),
		assignPending: commands.NewAssignPendingBatchesCommandHandler(factory, locker, publisher, nil),
		assignCourier: commands.NewAssignCourierCommandHandler(factory, locker, publisher, nil),
		startBatch:    commands.NewStartBatchCommandHandler(factory, locker, publisher, nil),
		completeBatch: commands.NewCompleteBatchCommandHandler(factory, locker, publisher, nil),
		deleteBatch:   commands.NewDeleteBatchCommandHandler(factory, locker, publisher, nil),
		removeOrder:   commands.NewRemoveOrderFromBatchCommandHandler(factory, locker, publisher, nil),
		markDelivered: commands.NewMarkOrderDeliveredCommandHandler(factory, locker),
		changeStatus:  commands.NewChangeCourierStatusCommandHandler(courierStoreFactory{store: store}, locker),
	}
}

func (e *engine) addCouriers(t *testing.T, n int) []*courier.Courier {
	t.Helper()
	out := make([]*courier.Courier, 0, n)
	for range n {
		c, err := courier.NewCourier(kernel.NewUUID(), "rider")
		require.NoError(t, err)
		require.NoError(t, e.store.Create().CourierRepository().Add(t.Context(), c))
		out = append(out, c)
	}
	return out
}

func (e *engine) place(t *testing.T, zoneID zone.ID, slot kernel.Slot) commands.PlaceOrderResult {
	t.Helper()
	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), &zoneID, slot)
	require.NoError(t, err)
	result, err := e.placeOrder.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return result
}

func (e *engine) slotBatches(t *testing.T, slot kernel.Slot) []*batch.Batch {
	t.Helper()
	batches, err := e.store.Create().BatchRepository().GetActiveBySlot(t.Context(), slot)
	require.NoError(t, err)
	return batches
}

func (e *engine) getBatch(t *testing.T, id kernel.UUID) *batch.Batch {
	t.Helper()
	b, err := e.store.Create().BatchRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return b
}

func (e *engine) getOrder(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := e.store.Create().OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return o
}

func (e *engine) getCourier(t *testing.T, id kernel.UUID) *courier.Courier {
	t.Helper()
	c, err := e.store.Create().CourierRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return c
}

func testZone(t *testing.T, id zone.ID, p zone.Priority, neighbors []zone.ID, preferred ...string) *zone.Zone {
	t.Helper()
	slots := make([]kernel.Slot, 0, len(preferred))
	for _, label := range preferred {
		slots = append(slots, kernel.MustParseSlot(label))
	}
	z, err := zone.NewZone(id, string(id), p, []string{string(id) + " street"}, neighbors, slots)
	require.NoError(t, err)
	return z
}

func TestEngine_PoolsOrdersUntilCapacityIsExhausted(t *testing.T) {
	// Arrange
	e := newEngine(t, testZone(t, "a", zone.Primary, nil))
	e.addCouriers(t, 2)
	slot := kernel.MustParseSlot("20:00")

	// Act
	var results []commands.PlaceOrderResult
	for range 7 {
		results = append(results, e.place(t, "a", slot))
	}

	// Assert
	outcomes := make([]services.Outcome, 0, 6)
	for _, r := range results[:6] {
		require.True(t, r.Admitted)
		outcomes = append(outcomes, r.Outcome)
	}
	assert.Equal(t, []services.Outcome{
		services.NewBatchCreated, services.JoinedBatch, services.JoinedBatch,
		services.NewBatchCreated, services.JoinedBatch, services.JoinedBatch,
	}, outcomes)
	assert.Equal(t, 6, results[0].Capacity.Remaining)

	rejected := results[6]
	assert.False(t, rejected.Admitted)
	assert.Equal(t, services.ReasonCapacityExhausted, rejected.Capacity.Reason)
	assert.Zero(t, rejected.Capacity.Remaining)
	_, err := e.store.Create().OrderRepository().Get(t.Context(), rejected.OrderID)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	batches := e.slotBatches(t, slot)
	require.Len(t, batches, 2)
	for _, b := range batches {
		assert.Equal(t, batch.MaxOrders, b.Len())
		assert.Equal(t, batch.Pending, b.Status())
	}

	assert.Equal(t, []ports.BatchEventType{ports.BatchCreated, ports.BatchOrderAdded}, e.publisher.types()[:2])
}

func TestEngine_PrimaryOrderJoinsAdjacentPrimaryBatch(t *testing.T) {
	e := newEngine(t,
		testZone(t, "a", zone.Primary, []zone.ID{"b"}),
		testZone(t, "b", zone.Primary, nil),
	)
	e.addCouriers(t, 1)
	slot := kernel.MustParseSlot("20:00")

	first := e.place(t, "a", slot)
	second := e.place(t, "b", slot)

	require.Equal(t, services.NewBatchCreated, first.Outcome)
	require.Equal(t, services.JoinedBatch, second.Outcome)
	assert.Equal(t, *first.BatchID, *second.BatchID)
	assert.Equal(t, zone.ID("a"), e.getBatch(t, *second.BatchID).ZoneID())
}

func TestEngine_DefersWhenNoCourierIsUnreserved(t *testing.T) {
	// Arrange
	e := newEngine(t,
		testZone(t, "c", zone.Secondary, []zone.ID{"d"}),
		testZone(t, "d", zone.Secondary, nil),
	)
	e.addCouriers(t, 1)
	slot := kernel.MustParseSlot("20:00")
	require.Equal(t, services.NewBatchCreated, e.place(t, "c", slot).Outcome)

	// Act
	deferred := e.place(t, "d", slot)

	// Assert
	assert.True(t, deferred.Admitted)
	assert.Equal(t, services.Deferred, deferred.Outcome)
	require.NotNil(t, deferred.SuggestedSlot)
	assert.Equal(t, slot.Next(), *deferred.SuggestedSlot)
	assert.Nil(t, deferred.BatchID)

	_, err := e.store.Create().OrderRepository().Get(t.Context(), deferred.OrderID)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Len(t, e.slotBatches(t, slot), 1)
}

func TestEngine_PickupAndUnknownZoneAreUnresolved(t *testing.T) {
	e := newEngine(t, testZone(t, "a", zone.Primary, nil))
	e.addCouriers(t, 1)
	slot := kernel.MustParseSlot("20:00")

	pickup, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), nil, slot)
	require.NoError(t, err)
	_, err = e.placeOrder.Handle(t.Context(), pickup)
	require.ErrorIs(t, err, services.ErrZoneUnresolved)

	unknown := zone.ID("nowhere")
	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), &unknown, slot)
	require.NoError(t, err)
	_, err = e.placeOrder.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, services.ErrZoneUnresolved)

	assert.Empty(t, e.slotBatches(t, slot))
}

func TestEngine_RunLifecycle(t *testing.T) {
	// Arrange
	e := newEngine(t, testZone(t, "a", zone.Primary, nil))
	riders := e.addCouriers(t, 1)
	slot := kernel.MustParseSlot("20:00")
	first := e.place(t, "a", slot)
	second := e.place(t, "a", slot)
	batchID := *first.BatchID
	ctx := t.Context()

	// Act & Assert: a courier is attached
	assigned, err := e.assignPending.Handle(ctx, commands.NewAssignPendingBatchesCommand())
	require.NoError(t, err)
	assert.Equal(t, commands.AssignPendingBatchesResult{Assigned: 1}, assigned)
	b := e.getBatch(t, batchID)
	assert.Equal(t, batch.Assigned, b.Status())
	assert.True(t, b.HasCourier(riders[0].ID()))

	// nothing can be delivered before the run starts
	deliver, err := commands.NewMarkOrderDeliveredCommand(first.OrderID)
	require.NoError(t, err)
	require.ErrorIs(t, e.markDelivered.Handle(ctx, deliver), commands.ErrBatchNotInProgress)

	start, err := commands.NewStartBatchCommand(batchID)
	require.NoError(t, err)
	require.NoError(t, e.startBatch.Handle(ctx, start))
	assert.Equal(t, batch.InProgress, e.getBatch(t, batchID).Status())
	assert.Equal(t, courier.OnRun, e.getCourier(t, riders[0].ID()).Status())

	complete, err := commands.NewCompleteBatchCommand(batchID)
	require.NoError(t, err)
	require.ErrorIs(t, e.completeBatch.Handle(ctx, complete), services.ErrUndeliveredOrders)

	for _, id := range []kernel.UUID{first.OrderID, second.OrderID} {
		cmd, cmdErr := commands.NewMarkOrderDeliveredCommand(id)
		require.NoError(t, cmdErr)
		require.NoError(t, e.markDelivered.Handle(ctx, cmd))
		assert.Equal(t, order.Delivered, e.getOrder(t, id).Status())
	}

	require.NoError(t, e.completeBatch.Handle(ctx, complete))
	assert.Equal(t, batch.Completed, e.getBatch(t, batchID).Status())
	assert.Equal(t, courier.Available, e.getCourier(t, riders[0].ID()).Status())
	assert.Empty(t, e.slotBatches(t, slot))

	assert.Equal(t, []ports.BatchEventType{
		ports.BatchCreated, ports.BatchOrderAdded,
		ports.BatchOrderAdded,
		ports.BatchCourierAssigned,
		ports.BatchStarted,
		ports.BatchCompleted,
	}, e.publisher.types())
}

func TestEngine_StartWithoutCourier(t *testing.T) {
	e := newEngine(t, testZone(t, "a", zone.Primary, nil))
	e.addCouriers(t, 1)
	placed := e.place(t, "a", kernel.MustParseSlot("20:00"))

	cmd, err := commands.NewStartBatchCommand(*placed.BatchID)
	require.NoError(t, err)
	require.ErrorIs(t, e.startBatch.Handle(t.Context(), cmd), commands.ErrBatchHasNoCourier)
}

func TestEngine_DeletedBatchOrdersAreRebatched(t *testing.T) {
	// Arrange
	e := newEngine(t, testZone(t, "a", zone.Primary, nil))
	e.addCouriers(t, 1)
	slot := kernel.MustParseSlot("20:00")
	first := e.place(t, "a", slot)
	second := e.place(t, "a", slot)
	ctx := t.Context()

	// Act
	del, err := commands.NewDeleteBatchCommand(*first.BatchID)
	require.NoError(t, err)
	require.NoError(t, e.deleteBatch.Handle(ctx, del))

	// Assert
	_, err = e.store.Create().BatchRepository().Get(ctx, *first.BatchID)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	for _, id := range []kernel.UUID{first.OrderID, second.OrderID} {
		o := e.getOrder(t, id)
		assert.Equal(t, order.Placed, o.Status())
		assert.Nil(t, o.Batch())
	}

	swept, err := e.assignBatched.Handle(ctx, commands.NewAssignUnbatchedOrdersCommand())
	require.NoError(t, err)
	assert.Equal(t, commands.AssignUnbatchedOrdersResult{Batched: 2}, swept)

	batches := e.slotBatches(t, slot)
	require.Len(t, batches, 1)
	assert.ElementsMatch(t, []kernel.UUID{first.OrderID, second.OrderID}, batches[0].OrderIDs())

	again, err := commands.NewAssignOrderCommand(first.OrderID)
	require.NoError(t, err)
	_, err = e.assignOrder.Handle(ctx, again)
	require.ErrorIs(t, err, commands.ErrOrderAlreadyBatched)
}

func TestEngine_RemoveOrderFromBatch(t *testing.T) {
	e := newEngine(t, testZone(t, "a", zone.Primary, nil))
	e.addCouriers(t, 1)
	slot := kernel.MustParseSlot("20:00")
	first := e.place(t, "a", slot)
	second := e.place(t, "a", slot)

	cmd, err := commands.NewRemoveOrderFromBatchCommand(*first.BatchID, second.OrderID)
	require.NoError(t, err)
	require.NoError(t, e.removeOrder.Handle(t.Context(), cmd))

	assert.Equal(t, []kernel.UUID{first.OrderID}, e.getBatch(t, *first.BatchID).OrderIDs())
	assert.Equal(t, order.Placed, e.getOrder(t, second.OrderID).Status())
	assert.Contains(t, e.publisher.types(), ports.BatchOrderRemoved)
}

func TestEngine_CourierCannotBeDoubleBooked(t *testing.T) {
	// Arrange
	e := newEngine(t,
		testZone(t, "a", zone.Primary, nil),
		testZone(t, "e", zone.Primary, nil),
	)
	riders := e.addCouriers(t, 2)
	slot := kernel.MustParseSlot("20:00")
	inA := e.place(t, "a", slot)
	inE := e.place(t, "e", slot)
	require.Equal(t, services.NewBatchCreated, inE.Outcome)

	first, err := commands.NewAssignCourierCommand(*inA.BatchID, riders[0].ID())
	require.NoError(t, err)
	require.NoError(t, e.assignCourier.Handle(t.Context(), first))

	// Act
	second, err := commands.NewAssignCourierCommand(*inE.BatchID, riders[0].ID())
	require.NoError(t, err)
	err = e.assignCourier.Handle(t.Context(), second)

	// Assert
	require.ErrorIs(t, err, batch.ErrCourierDoubleBooked)
	assert.Nil(t, e.getBatch(t, *inE.BatchID).Courier())

	// the same courier is never counted free twice
	assigned, err := e.assignPending.Handle(t.Context(), commands.NewAssignPendingBatchesCommand())
	require.NoError(t, err)
	assert.Equal(t, 1, assigned.Assigned)
	assert.True(t, e.getBatch(t, *inE.BatchID).HasCourier(riders[1].ID()))
}

func TestEngine_OffShiftCouriersAddNoCapacity(t *testing.T) {
	e := newEngine(t, testZone(t, "a", zone.Primary, nil))
	riders := e.addCouriers(t, 1)

	cmd, err := commands.NewChangeCourierStatusCommand(riders[0].ID(), courier.OffShift)
	require.NoError(t, err)
	require.NoError(t, e.changeStatus.Handle(t.Context(), cmd))

	result := e.place(t, "a", kernel.MustParseSlot("20:00"))
	assert.False(t, result.Admitted)
	assert.Zero(t, result.Capacity.Total)
}

func TestEngine_ConcurrentPlacementsRespectCapacity(t *testing.T) {
	// Arrange
	e := newEngine(t,
		testZone(t, "a", zone.Primary, []zone.ID{"b"}),
		testZone(t, "b", zone.Primary, nil),
	)
	e.addCouriers(t, 2)
	slot := kernel.MustParseSlot("20:00")
	ctx := t.Context()

	// Act
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		failures []error
	)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			zoneID := zone.ID("a")
			if i%2 == 1 {
				zoneID = "b"
			}
			cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), &zoneID, slot)
			if err == nil {
				var result commands.PlaceOrderResult
				result, err = e.placeOrder.Handle(ctx, cmd)
				if err == nil && result.Admitted && result.Outcome != services.Deferred {
					mu.Lock()
					admitted++
					mu.Unlock()
				}
			}
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.assignPending.Handle(ctx, commands.NewAssignPendingBatchesCommand())
		}()
	}
	wg.Wait()

	// Assert
	require.Empty(t, failures)
	assert.Equal(t, 2*courier.CapacityPerRun, admitted)

	batches := e.slotBatches(t, slot)
	assert.LessOrEqual(t, len(batches), 2)
	perCourier := map[kernel.UUID]int{}
	total := 0
	for _, b := range batches {
		assert.LessOrEqual(t, b.Len(), batch.MaxOrders)
		total += b.Len()
		if c := b.Courier(); c != nil {
			perCourier[*c]++
		}
	}
	assert.Equal(t, admitted, total)
	for id, n := range perCourier {
		assert.Equal(t, 1, n, "courier %s holds more than one run", id)
	}
}
