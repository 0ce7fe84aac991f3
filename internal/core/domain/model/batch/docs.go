// Package batch provides the Batch aggregate: one courier run for one zone and
// one 15-minute slot.
//
// A batch holds at most MaxOrders member orders in the order they joined and moves
// through a forward-only lifecycle:
//
//	Pending -> Assigned -> InProgress -> Completed
//
// Key business rules:
//   - Membership never exceeds MaxOrders
//   - Assigned, InProgress and Completed batches always carry a courier
//   - A Completed batch is immutable: membership and courier cannot change
//   - A batch may be deleted from any non-terminal state; deletion itself is
//     coordinated by the lifecycle service because it touches member orders
//
// Checks that need more than one batch, such as a courier holding at most one
// batch per slot, are enforced by the domain services package. The sentinel
// errors for those outcomes live here so every layer reports them the same way.
package batch
